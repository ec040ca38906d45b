package accounts

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aiquanty/Quanty-Backend/internal/aibackend"
	"github.com/aiquanty/Quanty-Backend/internal/apperr"
	"github.com/aiquanty/Quanty-Backend/internal/database/models"
	"github.com/aiquanty/Quanty-Backend/internal/testutil"
)

// fakeStore records uploads and deletes in memory.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (f *fakeStore) Upload(ctx context.Context, key, contentType string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStore) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

// stubBackend is a configurable stand-in for the AI service.
type stubBackend struct {
	status    int
	success   bool
	noOfPages int
	message   string
	answer    string

	mu       sync.Mutex
	requests []map[string]interface{}
	paths    []string
}

func (s *stubBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)

		s.mu.Lock()
		s.requests = append(s.requests, body)
		s.paths = append(s.paths, r.URL.Path)
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.status)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success":   s.success,
			"noOfPages": s.noOfPages,
			"message":   s.message,
			"answer":    s.answer,
		})
	})
}

func newTestService(t *testing.T, backend *stubBackend) (*Service, *gorm.DB, *fakeStore) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	store := newFakeStore()
	svc := NewService(db, aibackend.NewClient(server.URL), store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, db, store
}

func okBackend() *stubBackend {
	return &stubBackend{status: http.StatusOK, success: true, noOfPages: 3, answer: "the answer"}
}

// setCredits rewrites the account's credit counters through a load-mutate-save
// cycle so the JSON serialized column round-trips and collections survive.
func setCredits(t *testing.T, db *gorm.DB, accountID string, allowed, used float64) {
	t.Helper()

	var account models.Account
	require.NoError(t, db.First(&account, "id = ?", accountID).Error)
	account.AccountDetails.AllowedCredits = allowed
	account.AccountDetails.UsedCredits = used
	require.NoError(t, db.Save(&account).Error)
}

func TestEffectiveOwner(t *testing.T) {
	svc, db, _ := newTestService(t, okBackend())
	ctx := context.Background()

	owner := testutil.CreateTestOwner(t, db)
	member := testutil.CreateTestTeamMember(t, db, owner)
	outsider := testutil.CreateTestAccount(t, db)

	t.Run("owner resolves to itself", func(t *testing.T) {
		resolved, err := svc.EffectiveOwner(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, owner.ID, resolved.ID)
	})

	t.Run("team member resolves through linkage", func(t *testing.T) {
		resolved, err := svc.EffectiveOwner(ctx, member)
		require.NoError(t, err)
		assert.Equal(t, owner.ID, resolved.ID)
	})

	t.Run("unsubscribed account is rejected", func(t *testing.T) {
		_, err := svc.EffectiveOwner(ctx, outsider)
		assert.True(t, apperr.IsKind(err, apperr.KindPreconditionFailed))
	})

	t.Run("dangling owner linkage is not found", func(t *testing.T) {
		orphan := testutil.CreateTestAccount(t, db)
		orphan.Role = models.RoleUser
		orphan.OwnerID = "no-such-id"
		require.NoError(t, db.Save(orphan).Error)

		_, err := svc.EffectiveOwner(ctx, orphan)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestCreateCollection(t *testing.T) {
	svc, db, _ := newTestService(t, okBackend())
	ctx := context.Background()

	owner := testutil.CreateTestOwner(t, db)

	require.NoError(t, svc.CreateCollection(ctx, owner.Email, "Research"))

	reloaded, err := svc.GetByID(ctx, owner.ID.String())
	require.NoError(t, err)
	require.Len(t, reloaded.Collections, 1)
	assert.Equal(t, "Research", reloaded.Collections[0].Name)
	assert.Equal(t, []string{owner.ID.String()}, reloaded.Collections[0].ReadAccess)
	assert.Equal(t, []string{owner.ID.String()}, reloaded.Collections[0].WriteAccess)

	t.Run("name collision is case-insensitive", func(t *testing.T) {
		err := svc.CreateCollection(ctx, owner.Email, "rESEARCH")
		require.Error(t, err)
		assert.Equal(t, "Collection name already exists", apperr.Message(err))
	})

	t.Run("assistant limit is enforced", func(t *testing.T) {
		limited := testutil.CreateTestOwner(t, db)
		limited.AccountDetails.AllowedAssistants = 1
		require.NoError(t, db.Save(limited).Error)

		require.NoError(t, svc.CreateCollection(ctx, limited.Email, "first"))
		err := svc.CreateCollection(ctx, limited.Email, "second")
		require.Error(t, err)
		assert.Equal(t, "Assistant limit reached for current subscription", apperr.Message(err))
	})

	t.Run("unsubscribed account cannot create", func(t *testing.T) {
		outsider := testutil.CreateTestAccount(t, db)
		err := svc.CreateCollection(ctx, outsider.Email, "nope")
		assert.True(t, apperr.IsKind(err, apperr.KindPreconditionFailed))
	})
}

func TestCreateProjectForURLs(t *testing.T) {
	backend := okBackend()
	svc, db, _ := newTestService(t, backend)
	ctx := context.Background()

	owner := testutil.CreateTestOwner(t, db)
	require.NoError(t, svc.CreateCollection(ctx, owner.Email, "docs"))

	input := ProjectInput{
		Name:           "crawl",
		CollectionName: "docs",
		Model:          "gpt-4",
	}

	t.Run("more than three urls rejected", func(t *testing.T) {
		err := svc.CreateProjectForURLs(ctx, owner.Email, input, []string{"a", "b", "c", "d"})
		require.Error(t, err)
		assert.Equal(t, "Only 3 urls are allowed", apperr.Message(err))
	})

	t.Run("successful ingestion appends project and pages", func(t *testing.T) {
		require.NoError(t, svc.CreateProjectForURLs(ctx, owner.Email, input, []string{"https://example.com"}))

		reloaded, err := svc.GetByID(ctx, owner.ID.String())
		require.NoError(t, err)
		collection := reloaded.CollectionByName("docs")
		require.NotNil(t, collection)
		require.Len(t, collection.Projects, 1)
		assert.Equal(t, 0, collection.Projects[0].ID)
		assert.Equal(t, models.ProjectTypeURL, collection.Projects[0].Type)
		assert.Equal(t, 3, collection.NoOfPages)

		// Corpus name is the owner email prefixed to the collection name.
		backend.mu.Lock()
		last := backend.requests[len(backend.requests)-1]
		backend.mu.Unlock()
		assert.Equal(t, owner.Email+"docs", last["collectionName"])
	})

	t.Run("backend limit failure propagates its message", func(t *testing.T) {
		backend.status = http.StatusPreconditionFailed
		backend.success = false
		backend.message = "Page limit exceeded for current subscription"
		defer func() { backend.status = http.StatusOK; backend.success = true; backend.message = "" }()

		err := svc.CreateProjectForURLs(ctx, owner.Email, input, []string{"https://example.com"})
		require.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindPreconditionFailed))
		assert.Equal(t, "Page limit exceeded for current subscription", apperr.Message(err))

		reloaded, err2 := svc.GetByID(ctx, owner.ID.String())
		require.NoError(t, err2)
		assert.Len(t, reloaded.CollectionByName("docs").Projects, 1)
	})

	t.Run("write access required", func(t *testing.T) {
		member := testutil.CreateTestTeamMember(t, db, owner)
		err := svc.CreateProjectForURLs(ctx, member.Email, input, []string{"https://example.com"})
		require.Error(t, err)
		assert.Equal(t, "User is not allowed to modify this collection", apperr.Message(err))
	})
}

func TestCreateProjectForFiles(t *testing.T) {
	backend := okBackend()
	svc, db, store := newTestService(t, backend)
	ctx := context.Background()

	owner := testutil.CreateTestOwner(t, db)
	require.NoError(t, svc.CreateCollection(ctx, owner.Email, "papers"))

	input := ProjectInput{Name: "paper", CollectionName: "papers", Model: "gpt-4"}

	t.Run("single unsupported file rejected", func(t *testing.T) {
		err := svc.CreateProjectForFiles(ctx, owner.Email, input, []FileUpload{
			{Filename: "movie.mp4", ContentType: "video/mp4", Data: []byte("x")},
		})
		require.Error(t, err)
		assert.Equal(t, "File type not supported", apperr.Message(err))
	})

	t.Run("single pdf uploads and appends", func(t *testing.T) {
		err := svc.CreateProjectForFiles(ctx, owner.Email, input, []FileUpload{
			{Filename: "a+b.pdf", ContentType: "application/pdf", Data: []byte("content")},
		})
		require.NoError(t, err)

		// Key index is the project count before append; + is stripped.
		key := "asset/" + owner.Email + "/papers/0-ab.pdf"
		store.mu.Lock()
		_, ok := store.objects[key]
		store.mu.Unlock()
		assert.True(t, ok, "expected upload under %s", key)

		reloaded, err := svc.GetByID(ctx, owner.ID.String())
		require.NoError(t, err)
		collection := reloaded.CollectionByName("papers")
		require.Len(t, collection.Projects, 1)
		assert.Equal(t, "ab.pdf", collection.Projects[0].File)
		assert.Equal(t, 3, collection.NoOfPages)
	})

	t.Run("unsupported files dropped silently in a batch", func(t *testing.T) {
		err := svc.CreateProjectForFiles(ctx, owner.Email, input, []FileUpload{
			{Filename: "notes.txt", ContentType: "text/plain", Data: []byte("a")},
			{Filename: "movie.mp4", ContentType: "video/mp4", Data: []byte("b")},
		})
		require.NoError(t, err)

		reloaded, err := svc.GetByID(ctx, owner.ID.String())
		require.NoError(t, err)
		assert.Len(t, reloaded.CollectionByName("papers").Projects, 2)
	})
}

func TestAskQuery(t *testing.T) {
	backend := okBackend()
	svc, db, _ := newTestService(t, backend)
	ctx := context.Background()

	owner := testutil.CreateTestOwner(t, db)
	require.NoError(t, svc.CreateCollection(ctx, owner.Email, "docs"))
	require.NoError(t, svc.CreateProjectForURLs(ctx, owner.Email, ProjectInput{
		Name: "crawl", CollectionName: "docs", Model: "gpt-4",
	}, []string{"https://example.com"}))

	t.Run("successful query meters credits", func(t *testing.T) {
		answer, err := svc.AskQuery(ctx, owner.Email, "docs", 0, "what is this")
		require.NoError(t, err)
		assert.Equal(t, "the answer", answer)

		reloaded, err := svc.GetByID(ctx, owner.ID.String())
		require.NoError(t, err)
		assert.InDelta(t, 2.5, reloaded.AccountDetails.UsedCredits, 0.001)
	})

	t.Run("insufficient credits rejected before the call", func(t *testing.T) {
		setCredits(t, db, owner.ID.String(), 2, 0)

		backend.mu.Lock()
		callsBefore := len(backend.requests)
		backend.mu.Unlock()

		_, err := svc.AskQuery(ctx, owner.Email, "docs", 0, "again")
		require.Error(t, err)
		assert.Equal(t, "Insufficient credits", apperr.Message(err))

		backend.mu.Lock()
		callsAfter := len(backend.requests)
		backend.mu.Unlock()
		assert.Equal(t, callsBefore, callsAfter, "rejected query must not reach the backend")
	})

	t.Run("failed call burns no credits", func(t *testing.T) {
		setCredits(t, db, owner.ID.String(), 100, 0)

		backend.status = http.StatusInternalServerError
		backend.success = false
		defer func() { backend.status = http.StatusOK; backend.success = true }()

		_, err := svc.AskQuery(ctx, owner.Email, "docs", 0, "broken")
		require.Error(t, err)

		reloaded, err2 := svc.GetByID(ctx, owner.ID.String())
		require.NoError(t, err2)
		assert.Zero(t, reloaded.AccountDetails.UsedCredits)
	})

	t.Run("read access required", func(t *testing.T) {
		member := testutil.CreateTestTeamMember(t, db, owner)
		_, err := svc.AskQuery(ctx, member.Email, "docs", 0, "hi")
		require.Error(t, err)
		assert.Equal(t, "User is not allowed to view this collection", apperr.Message(err))
	})

	t.Run("unknown project rejected", func(t *testing.T) {
		_, err := svc.AskQuery(ctx, owner.Email, "docs", 99, "hi")
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestRenameCollection(t *testing.T) {
	backend := okBackend()
	svc, db, _ := newTestService(t, backend)
	ctx := context.Background()

	owner := testutil.CreateTestOwner(t, db)
	require.NoError(t, svc.CreateCollection(ctx, owner.Email, "old"))

	t.Run("backend failure leaves the name untouched", func(t *testing.T) {
		backend.status = http.StatusInternalServerError
		backend.success = false

		err := svc.RenameCollection(ctx, owner.Email, "old", "new")
		require.Error(t, err)

		reloaded, err2 := svc.GetByID(ctx, owner.ID.String())
		require.NoError(t, err2)
		assert.NotNil(t, reloaded.CollectionByName("old"))
		assert.Nil(t, reloaded.CollectionByName("new"))
	})

	t.Run("rename applies after backend confirms", func(t *testing.T) {
		backend.status = http.StatusOK
		backend.success = true

		require.NoError(t, svc.RenameCollection(ctx, owner.Email, "old", "new"))

		reloaded, err := svc.GetByID(ctx, owner.ID.String())
		require.NoError(t, err)
		assert.Nil(t, reloaded.CollectionByName("old"))
		assert.NotNil(t, reloaded.CollectionByName("new"))
	})
}

func TestDeleteCollection(t *testing.T) {
	backend := okBackend()
	svc, db, store := newTestService(t, backend)
	ctx := context.Background()

	owner := testutil.CreateTestOwner(t, db)
	require.NoError(t, svc.CreateCollection(ctx, owner.Email, "docs"))
	require.NoError(t, svc.CreateProjectForFiles(ctx, owner.Email, ProjectInput{
		Name: "paper", CollectionName: "docs", Model: "gpt-4",
	}, []FileUpload{{Filename: "a.pdf", ContentType: "application/pdf", Data: []byte("x")}}))

	require.NoError(t, svc.DeleteCollection(ctx, owner.Email, "docs"))

	reloaded, err := svc.GetByID(ctx, owner.ID.String())
	require.NoError(t, err)
	assert.Empty(t, reloaded.Collections)

	store.mu.Lock()
	deleted := append([]string(nil), store.deleted...)
	store.mu.Unlock()
	assert.Contains(t, deleted, "asset/"+owner.Email+"/docs/0-a.pdf")

	backend.mu.Lock()
	lastPath := backend.paths[len(backend.paths)-1]
	backend.mu.Unlock()
	assert.Equal(t, "/api/v1/collection/delete", lastPath)
}

func TestSetUserAccess(t *testing.T) {
	svc, db, _ := newTestService(t, okBackend())
	ctx := context.Background()

	owner := testutil.CreateTestOwner(t, db)
	member := testutil.CreateTestTeamMember(t, db, owner)
	require.NoError(t, svc.CreateCollection(ctx, owner.Email, "docs"))

	grant := SetAccessInput{
		CollectionName: "docs",
		UserID:         member.ID.String(),
		ReadAccess:     true,
		Action:         "add",
	}

	require.NoError(t, svc.SetUserAccess(ctx, owner.Email, grant))

	t.Run("duplicate grant rejected", func(t *testing.T) {
		err := svc.SetUserAccess(ctx, owner.Email, grant)
		require.Error(t, err)
		assert.Equal(t, "Already have access", apperr.Message(err))
	})

	t.Run("granted member can read", func(t *testing.T) {
		names, err := svc.CollectionNames(ctx, member.Email)
		require.NoError(t, err)
		assert.Equal(t, []string{"docs"}, names)

		projects, err := svc.UserProjects(ctx, member.Email)
		require.NoError(t, err)
		assert.Empty(t, projects)
	})

	t.Run("only owner may change access", func(t *testing.T) {
		err := svc.SetUserAccess(ctx, member.Email, grant)
		require.Error(t, err)
		assert.Equal(t, "Only owner can set user access", apperr.Message(err))
	})

	t.Run("removing a missing grant rejected", func(t *testing.T) {
		err := svc.SetUserAccess(ctx, owner.Email, SetAccessInput{
			CollectionName: "docs",
			UserID:         member.ID.String(),
			WriteAccess:    true,
			Action:         "remove",
		})
		require.Error(t, err)
		assert.Equal(t, "User access does not exist", apperr.Message(err))
	})

	t.Run("revocation removes the grant", func(t *testing.T) {
		err := svc.SetUserAccess(ctx, owner.Email, SetAccessInput{
			CollectionName: "docs",
			UserID:         member.ID.String(),
			ReadAccess:     true,
			Action:         "remove",
		})
		require.NoError(t, err)

		_, err = svc.CollectionsWithAccess(ctx, owner.Email)
		require.NoError(t, err)

		names, err := svc.CollectionNames(ctx, member.Email)
		require.NoError(t, err)
		assert.Equal(t, []string{"docs"}, names, "listing names needs no grant")
	})
}

func TestRemoveSubscriptionFromUser(t *testing.T) {
	svc, db, _ := newTestService(t, okBackend())
	ctx := context.Background()

	owner := testutil.CreateTestOwner(t, db)
	member := testutil.CreateTestTeamMember(t, db, owner)

	require.NoError(t, svc.RemoveSubscriptionFromUser(ctx, owner.ID.String()))

	reloadedOwner, err := svc.GetByID(ctx, owner.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.RoleNone, reloadedOwner.Role)
	assert.Empty(t, reloadedOwner.ProductID)
	assert.Zero(t, reloadedOwner.AccountDetails.AllowedCredits)
	assert.Empty(t, reloadedOwner.AccountDetails.TeamMembers)

	reloadedMember, err := svc.GetByID(ctx, member.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.RoleNone, reloadedMember.Role)
	assert.Empty(t, reloadedMember.OwnerID)
}
