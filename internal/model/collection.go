package model

// SortOrder is the direction a collection is listed in.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// StatusPending is the status every certificate request starts with.
const StatusPending = "pending"

// Collection declares how one resource collection is stored, routed and listed.
type Collection struct {
	// Name is the collection name inside the document store.
	Name string

	// Path is the URL segment under /api.
	Path string

	// SortField holds the server timestamp stamped at creation and is the
	// single key the collection is listed by.
	SortField string

	Order SortOrder

	// Defaults are forced onto every created document, overwriting
	// whatever the caller sent for those keys.
	Defaults Fields

	// Patchable reports whether PATCH /api/<Path>/:id is exposed.
	Patchable bool
}

var (
	Courses = Collection{
		Name:      "courses",
		Path:      "courses",
		SortField: "inserted_at",
		Order:     Ascending,
		Patchable: true,
	}

	Announcements = Collection{
		Name:      "announcements",
		Path:      "announcements",
		SortField: "inserted_at",
		Order:     Ascending,
		Patchable: true,
	}

	Registrations = Collection{
		Name:      "registrations",
		Path:      "registrations",
		SortField: "registrationDate",
		Order:     Descending,
		Patchable: false,
	}

	CertificateRequests = Collection{
		Name:      "certificateRequests",
		Path:      "certificate-requests",
		SortField: "requestDate",
		Order:     Descending,
		Defaults:  Fields{"status": StatusPending},
		Patchable: true,
	}
)

// Collections returns every collection in routing order.
func Collections() []Collection {
	return []Collection{Courses, Announcements, Registrations, CertificateRequests}
}

// Prepare copies the caller's payload and applies the collection defaults.
//
// The sort-key timestamp is not set here: it must come from the store's
// clock, so each repository stamps it while writing.
func (c Collection) Prepare(fields Fields) Fields {
	prepared := fields.Clone()
	for key, value := range c.Defaults {
		prepared[key] = value
	}
	return prepared
}

// IsCertificateRequests reports whether c is the certificate request collection.
func (c Collection) IsCertificateRequests() bool {
	return c.Name == CertificateRequests.Name
}
