package dberr

// Code is a coarse category for a PostgreSQL SQLSTATE.
type Code string

const (
	Other                Code = "other"
	InvalidTextRep       Code = "invalid_text_representation"
	InvalidJSONText      Code = "invalid_json_text"
	UntranslatableChar   Code = "untranslatable_character"
	StringDataRightTrunc Code = "string_data_right_truncation"
	UniqueViolation      Code = "unique_violation"
	NotNullViolation     Code = "not_null_violation"
	CheckViolation       Code = "check_violation"
	ProgramLimitExceeded Code = "program_limit_exceeded"
	ConnectionException  Code = "connection_exception"
	UndefinedTable       Code = "undefined_table"
)

// sqlStates maps the SQLSTATE values the documents table can raise.
var sqlStates = map[string]Code{
	"22P02": InvalidTextRep,
	"22032": InvalidJSONText,
	"22P05": UntranslatableChar,
	"22001": StringDataRightTrunc,
	"23505": UniqueViolation,
	"23502": NotNullViolation,
	"23514": CheckViolation,
	"54000": ProgramLimitExceeded,
	"08000": ConnectionException,
	"08003": ConnectionException,
	"08006": ConnectionException,
	"42P01": UndefinedTable,
}

// MapCode converts a SQLSTATE into a Code, defaulting to Other.
func MapCode(sqlState string) Code {
	if code, ok := sqlStates[sqlState]; ok {
		return code
	}
	return Other
}

// IsClientError reports whether the code was caused by the request payload
// rather than by the database being unavailable or misconfigured.
func (c Code) IsClientError() bool {
	switch c {
	case InvalidTextRep, InvalidJSONText, UntranslatableChar, StringDataRightTrunc,
		UniqueViolation, NotNullViolation, CheckViolation, ProgramLimitExceeded:
		return true
	}
	return false
}
