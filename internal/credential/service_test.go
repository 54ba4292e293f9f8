package credential

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/credstore/internal/common"
	"github.com/dmitrijs2005/credstore/internal/kdfx"
	"github.com/dmitrijs2005/credstore/internal/secretstore"
)

// testPolicy keeps iteration counts small so the suite stays fast; the cost
// scaling itself is covered in the kdfx tests.
func testPolicy() Policy {
	p := DefaultPolicy()
	p.Iterations = 100
	return p
}

// failingEntropy simulates an exhausted entropy source.
type failingEntropy struct{}

func (failingEntropy) Random(n int) ([]byte, error) {
	return nil, fmt.Errorf("%w: source exhausted", common.ErrEntropy)
}

func newTestService(t *testing.T) (*Service, *secretstore.MemoryStore) {
	t.Helper()
	store := secretstore.NewMemoryStore()
	svc, err := NewService(testPolicy(), secretstore.NewSystemEntropy(), store)
	require.NoError(t, err)
	return svc, store
}

func TestService_EnrollVerifyRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	passwords := []string{
		"llfwkfw9932",
		"correct horse battery staple",
		"hunter2",
		"пароль",
		"p@ssw0rd!",
		"  spaces  ",
		"1234567890",
		"a",
		"ZZZZZZZZZZZZZZZZZZZZZZZZZZZZ",
		"emoji-🔑",
	}

	for i, pw := range passwords {
		id := fmt.Sprintf("cred-%d", i)

		rec, err := svc.Enroll(ctx, id, []byte(pw))
		require.NoError(t, err, "enroll %q", pw)
		assert.Equal(t, id, rec.ID)
		assert.Len(t, rec.Salt, testPolicy().SaltLength)
		assert.Len(t, rec.Verifier, testPolicy().VerifierLength)

		ok, err := svc.Verify(rec, []byte(pw))
		require.NoError(t, err)
		assert.True(t, ok, "same password must match for %q", pw)

		ok, err = svc.Verify(rec, []byte(pw+"x"))
		require.NoError(t, err)
		assert.False(t, ok, "different password must not match for %q", pw)
	}
}

func TestService_EnrollGeneratesIDWhenEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	rec, err := svc.Enroll(context.Background(), "", []byte("pw"))
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
}

func TestService_EnrollUsesFreshSaltPerRecord(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	rec1, err := svc.Enroll(ctx, "a", []byte("same password"))
	require.NoError(t, err)
	rec2, err := svc.Enroll(ctx, "b", []byte("same password"))
	require.NoError(t, err)

	assert.NotEqual(t, rec1.Salt, rec2.Salt)
	assert.NotEqual(t, rec1.Verifier, rec2.Verifier)
}

func TestService_EnrollPersistsEncodedRecord(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	rec, err := svc.Enroll(ctx, "cred-1", []byte("pw"))
	require.NoError(t, err)

	stored, err := store.Load(ctx, "cred-1")
	require.NoError(t, err)
	assert.Equal(t, rec.Encode(), string(stored))

	// and the password must not appear in what was persisted
	assert.NotContains(t, string(stored), "pw")
}

func TestService_EnrollEntropyFailureIsFatal(t *testing.T) {
	ctx := context.Background()
	store := secretstore.NewMemoryStore()
	svc, err := NewService(testPolicy(), failingEntropy{}, store)
	require.NoError(t, err)

	rec, err := svc.Enroll(ctx, "cred-1", []byte("pw"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrEntropy)
	assert.Nil(t, rec)

	// nothing may have been stored
	_, err = store.Load(ctx, "cred-1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestService_EnrollDuplicateIDIsConflict(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Enroll(ctx, "cred-1", []byte("pw"))
	require.NoError(t, err)

	_, err = svc.Enroll(ctx, "cred-1", []byte("other"))
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestService_EnrollRejectsOverlongPassword(t *testing.T) {
	svc, _ := newTestService(t)

	long := make([]byte, testPolicy().MaxPasswordLength+1)
	_, err := svc.Enroll(context.Background(), "cred-1", long)
	assert.ErrorIs(t, err, common.ErrDerivation)
}

func TestService_EmptyPasswordIsAccepted(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	rec, err := svc.Enroll(ctx, "cred-1", nil)
	require.NoError(t, err)

	ok, err := svc.Verify(rec, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Verify(rec, []byte("not empty"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_VerifyMalformedRecord(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name string
		rec  *Record
	}{
		{"nil record", nil},
		{"unknown digest", &Record{Digest: "md5", Iterations: 10, Salt: []byte("s"), Verifier: []byte("v")}},
		{"zero iterations", &Record{Digest: kdfx.SHA256, Iterations: 0, Salt: []byte("s"), Verifier: []byte("v")}},
		{"empty salt", &Record{Digest: kdfx.SHA256, Iterations: 10, Verifier: []byte("v")}},
		{"empty verifier", &Record{Digest: kdfx.SHA256, Iterations: 10, Salt: []byte("s")}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := svc.Verify(tc.rec, []byte("pw"))
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrFormat)
			assert.False(t, ok, "malformed record must never report a match")
		})
	}
}

func TestService_VerifyStored(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	_, err := svc.Enroll(ctx, "cred-1", []byte("pw"))
	require.NoError(t, err)

	ok, err := svc.VerifyStored(ctx, "cred-1", []byte("pw"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.VerifyStored(ctx, "cred-1", []byte("wrong"))
	require.NoError(t, err)
	assert.False(t, ok)

	// missing record
	ok, err = svc.VerifyStored(ctx, "absent", []byte("pw"))
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.False(t, ok)

	// corrupted record: non-match plus a diagnosable format error
	require.NoError(t, store.Delete(ctx, "cred-1"))
	require.NoError(t, store.Save(ctx, "cred-1", []byte("garbage")))

	ok, err = svc.VerifyStored(ctx, "cred-1", []byte("pw"))
	assert.ErrorIs(t, err, common.ErrFormat)
	assert.False(t, ok)
}

func TestService_VerifyHonorsRecordParametersNotPolicy(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	rec, err := svc.Enroll(ctx, "cred-1", []byte("pw"))
	require.NoError(t, err)

	// a service configured with a different current policy must still
	// verify the old record with the record's own parameters
	newer := testPolicy()
	newer.Digest = kdfx.SHA512
	newer.Iterations = 250
	svc2, err := NewService(newer, secretstore.NewSystemEntropy(), secretstore.NewMemoryStore())
	require.NoError(t, err)

	ok, err := svc2.Verify(rec, []byte("pw"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestService_Revoke(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Enroll(ctx, "cred-1", []byte("pw"))
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, "cred-1"))

	_, err = svc.VerifyStored(ctx, "cred-1", []byte("pw"))
	assert.ErrorIs(t, err, common.ErrNotFound)

	// revoke-then-enroll is the password change flow; it must succeed and
	// produce a different salt
	rec, err := svc.Enroll(ctx, "cred-1", []byte("new password"))
	require.NoError(t, err)
	assert.NotEmpty(t, rec.Salt)
}

func TestNewService_RejectsInvalidPolicy(t *testing.T) {
	store := secretstore.NewMemoryStore()
	entropy := secretstore.NewSystemEntropy()

	bad := testPolicy()
	bad.Iterations = 0
	_, err := NewService(bad, entropy, store)
	assert.ErrorIs(t, err, common.ErrDerivation)

	bad = testPolicy()
	bad.Digest = "md5"
	_, err = NewService(bad, entropy, store)
	assert.Error(t, err)
}

func TestService_ErrorsNeverContainThePassword(t *testing.T) {
	ctx := context.Background()
	store := secretstore.NewMemoryStore()
	svc, err := NewService(testPolicy(), failingEntropy{}, store)
	require.NoError(t, err)

	password := []byte("super-secret-password")
	_, err = svc.Enroll(ctx, "cred-1", password)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), string(password))

	var target error = errors.Unwrap(err)
	if target != nil {
		assert.NotContains(t, target.Error(), string(password))
	}
}
