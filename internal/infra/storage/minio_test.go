package storage

import (
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, useSSL bool) *Store {
	t.Helper()

	cli, err := minio.New("archive.internal:9000", &minio.Options{
		Creds:  credentials.NewStaticV4("key", "secret", ""),
		Secure: useSSL,
	})
	require.NoError(t, err)
	return &Store{client: cli, bucketName: "reports"}
}

func TestObjectURLFollowsEndpointScheme(t *testing.T) {
	plain := newTestStore(t, false)
	assert.Equal(t,
		"http://archive.internal:9000/reports/reviews/approved/abc.json",
		plain.objectURL("reviews/approved/abc.json"))

	tls := newTestStore(t, true)
	assert.Equal(t,
		"https://archive.internal:9000/reports/reviews/approved/abc.json",
		tls.objectURL("reviews/approved/abc.json"))
}
