package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrepareForcesCertificateRequestStatus(t *testing.T) {
	input := Fields{"name": "Ada", "status": "approved"}

	prepared := CertificateRequests.Prepare(input)

	assert.Equal(t, Fields{"name": "Ada", "status": StatusPending}, prepared)
	assert.Equal(t, "approved", input["status"], "caller payload must not be mutated")
}

func TestPrepareLeavesOtherCollectionsAlone(t *testing.T) {
	prepared := Courses.Prepare(Fields{"title": "Intro", "status": "draft"})

	assert.Equal(t, Fields{"title": "Intro", "status": "draft"}, prepared)
}

func TestPrepareDoesNotStampTimestamp(t *testing.T) {
	for _, c := range Collections() {
		_, ok := c.Prepare(nil)[c.SortField]
		assert.False(t, ok, c.Name)
	}
}

func TestCollections(t *testing.T) {
	tests := []struct {
		collection Collection
		path       string
		sortField  string
		order      SortOrder
		patchable  bool
	}{
		{Courses, "courses", "inserted_at", Ascending, true},
		{Announcements, "announcements", "inserted_at", Ascending, true},
		{Registrations, "registrations", "registrationDate", Descending, false},
		{CertificateRequests, "certificate-requests", "requestDate", Descending, true},
	}

	assert.Len(t, Collections(), len(tests))

	for _, tt := range tests {
		t.Run(tt.collection.Name, func(t *testing.T) {
			assert.Equal(t, tt.path, tt.collection.Path)
			assert.Equal(t, tt.sortField, tt.collection.SortField)
			assert.Equal(t, tt.order, tt.collection.Order)
			assert.Equal(t, tt.patchable, tt.collection.Patchable)
		})
	}

	assert.Equal(t, "certificateRequests", CertificateRequests.Name)
	assert.True(t, CertificateRequests.IsCertificateRequests())
	assert.False(t, Courses.IsCertificateRequests())
}
