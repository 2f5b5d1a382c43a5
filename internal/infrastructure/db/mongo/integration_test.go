//go:build integration

package mongo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hyperlocal/community/internal/core/domain"
	"github.com/hyperlocal/community/internal/core/ports"
)

var testDB *mongo.Database

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		panic("start mongo container: " + err.Error())
	}

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		panic("resolve connection string: " + err.Error())
	}

	client, db, err := Connect(ctx, Config{URI: uri, Database: "community_test"})
	if err != nil {
		_ = container.Terminate(ctx)
		panic(err)
	}
	if err := EnsureIndexes(ctx, db); err != nil {
		_ = container.Terminate(ctx)
		panic(err)
	}
	testDB = db

	code := m.Run()

	_ = client.Disconnect(ctx)
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func resetCollections(t *testing.T) {
	t.Helper()
	for _, name := range []string{collectionUsers, collectionNotices, collectionRequests, collectionMessages, collectionActivity} {
		if _, err := testDB.Collection(name).DeleteMany(context.Background(), map[string]any{}); err != nil {
			t.Fatalf("reset %s: %v", name, err)
		}
	}
}

func TestUserRepository_UniqueEmailAndRoles(t *testing.T) {
	resetCollections(t)
	ctx := context.Background()
	repo := NewUserRepository(testDB)

	sec, err := repo.Create(ctx, &domain.User{Name: "Sec", Email: "sec@x.com", Role: domain.RoleSecretary, CreatedAt: time.Now()})
	if err != nil {
		t.Fatalf("create secretary: %v", err)
	}
	alice, err := repo.Create(ctx, &domain.User{Name: "Alice", Email: "alice@x.com", Apartment: "A-101", Role: domain.RoleResident, CreatedAt: time.Now()})
	if err != nil {
		t.Fatalf("create resident: %v", err)
	}

	if _, err := repo.Create(ctx, &domain.User{Email: "alice@x.com"}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	got, err := repo.FindByID(ctx, sec.ID)
	if err != nil || got.Role != domain.RoleSecretary {
		t.Fatalf("secretary role not preserved: %+v, %v", got, err)
	}

	taken, err := repo.EmailTakenByOther(ctx, "alice@x.com", alice.ID)
	if err != nil || taken {
		t.Fatalf("own email must not count as taken: %v, %v", taken, err)
	}
	taken, _ = repo.EmailTakenByOther(ctx, "alice@x.com", sec.ID)
	if !taken {
		t.Fatalf("expected alice@x.com to be taken for the secretary")
	}

	if err := repo.Update(ctx, sec.ID, domain.UserPatch{Email: strPtr("alice@x.com")}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected unique index to reject update, got %v", err)
	}

	n, err := repo.CountResidents(ctx)
	if err != nil || n != 1 {
		t.Fatalf("expected 1 resident, got %d, %v", n, err)
	}

	if _, err := repo.FindByID(ctx, "not-an-id"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for malformed id, got %v", err)
	}
}

func TestServiceRequestRepository_StatusRoundTrip(t *testing.T) {
	resetCollections(t)
	ctx := context.Background()
	users := NewUserRepository(testDB)
	repo := NewServiceRequestRepository(testDB)

	alice, _ := users.Create(ctx, &domain.User{Name: "Alice", Email: "alice@x.com", Apartment: "A-101", CreatedAt: time.Now()})

	req := &domain.ServiceRequest{
		Title:          "Leak",
		Description:    "Kitchen tap",
		Category:       domain.CategoryPlumbing,
		Priority:       domain.PriorityUrgent,
		Status:         domain.StatusPending,
		UserID:         alice.ID,
		UserName:       alice.Name,
		Apartment:      alice.Apartment,
		IdempotencyKey: "k1",
		CreatedAt:      time.Now(),
	}
	if err := repo.Create(ctx, req); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.UpdateStatus(ctx, req.ID, domain.StatusInProgress); err != nil {
		t.Fatalf("update status: %v", err)
	}
	got, err := repo.FindByID(ctx, req.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Status != domain.StatusInProgress || got.UserID != alice.ID {
		t.Fatalf("unexpected request: %+v", got)
	}

	replay, err := repo.FindByIdempotencyKey(ctx, alice.ID, "k1")
	if err != nil || replay.ID != req.ID {
		t.Fatalf("idempotency lookup: %+v, %v", replay, err)
	}

	own, _ := repo.List(ctx, ports.RequestFilter{UserID: alice.ID})
	if len(own) != 1 {
		t.Fatalf("expected 1 own request, got %d", len(own))
	}
	pending, _ := repo.Count(ctx, ports.RequestFilter{Status: domain.StatusPending})
	if pending != 0 {
		t.Fatalf("expected no pending requests, got %d", pending)
	}
}

func TestNoticeAndMessageRepositories_NewestFirst(t *testing.T) {
	resetCollections(t)
	ctx := context.Background()
	notices := NewNoticeRepository(testDB)
	messages := NewMessageRepository(testDB)

	base := time.Now().Add(-time.Hour)
	for i, title := range []string{"Gym closed", "Lift service", "Water shutoff"} {
		n := &domain.Notice{Title: title, Content: "x", Priority: domain.PriorityHigh, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := notices.Create(ctx, n); err != nil {
			t.Fatalf("create notice: %v", err)
		}
	}
	list, err := notices.List(ctx, 2)
	if err != nil || len(list) != 2 || list[0].Title != "Water shutoff" {
		t.Fatalf("unexpected notices: %v, %v", list, err)
	}
	if err := notices.Delete(ctx, list[0].ID); err != nil {
		t.Fatalf("delete notice: %v", err)
	}
	if err := notices.Delete(ctx, list[0].ID); !errors.Is(err, domain.ErrNoticeNotFound) {
		t.Fatalf("expected ErrNoticeNotFound, got %v", err)
	}

	for i := 0; i < 3; i++ {
		m := &domain.ChatMessage{Content: "hi", UserID: "65f000000000000000000001", SenderRole: domain.RoleSecretary, CreatedAt: base.Add(time.Duration(i) * time.Second)}
		if err := messages.Create(ctx, m); err != nil {
			t.Fatalf("create message: %v", err)
		}
	}
	recent, err := messages.Recent(ctx, 2)
	if err != nil || len(recent) != 2 || !recent[0].CreatedAt.After(recent[1].CreatedAt) {
		t.Fatalf("expected newest first: %v, %v", recent, err)
	}
	if recent[0].SenderRole != domain.RoleSecretary || recent[0].UserID != "65f000000000000000000001" {
		t.Fatalf("sender snapshot not preserved: %+v", recent[0])
	}
}

func TestActivityRepository_Recent(t *testing.T) {
	resetCollections(t)
	ctx := context.Background()
	repo := NewActivityRepository(testDB)

	for _, kind := range []domain.ActivityKind{domain.ActivityNoticePosted, domain.ActivityNoticeDeleted} {
		ev := domain.NewActivity(kind, &domain.User{ID: "sec", Role: domain.RoleSecretary}, "n1", "")
		if err := repo.Insert(ctx, &ev); err != nil {
			t.Fatalf("insert: %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	got, err := repo.Recent(ctx, 10)
	if err != nil || len(got) != 2 || got[0].Kind != domain.ActivityNoticeDeleted {
		t.Fatalf("unexpected activity: %v, %v", got, err)
	}
}

func TestUserRepository_LegacyDocument(t *testing.T) {
	resetCollections(t)
	ctx := context.Background()
	legacyHash := "pbkdf2:sha256:1000$saltsalt$b7d30295401e991220b84cf697cd7d026b3bfdd26c2d46eb7e96f8e4cb6ae049"

	if _, err := testDB.Collection(collectionUsers).InsertOne(ctx, bson.M{
		"name":         "Legacy Resident",
		"email":        "Legacy.Resident@Example.com",
		"apartment":    "C-12",
		"password":     legacyHash,
		"is_secretary": false,
		"created_at":   time.Now().UTC(),
	}); err != nil {
		t.Fatalf("insert legacy doc: %v", err)
	}

	n, err := NormalizeUserEmails(ctx, testDB)
	if err != nil || n != 1 {
		t.Fatalf("NormalizeUserEmails = %d, %v", n, err)
	}
	if n, err := NormalizeUserEmails(ctx, testDB); err != nil || n != 0 {
		t.Fatalf("second run = %d, %v", n, err)
	}

	repo := NewUserRepository(testDB)
	u, err := repo.FindByEmail(ctx, "legacy.resident@example.com")
	if err != nil {
		t.Fatalf("find by lower-cased email: %v", err)
	}
	if u.PasswordHash != legacyHash || u.Role != domain.RoleResident {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestNormalizeUserEmails_CaseCollision(t *testing.T) {
	resetCollections(t)
	ctx := context.Background()
	coll := testDB.Collection(collectionUsers)

	for _, email := range []string{"twin@example.com", "Twin@Example.com"} {
		if _, err := coll.InsertOne(ctx, bson.M{"name": "Twin", "email": email, "password": "x"}); err != nil {
			t.Fatalf("insert %s: %v", email, err)
		}
	}
	if _, err := NormalizeUserEmails(ctx, testDB); err == nil {
		t.Fatal("expected an error when two accounts differ only by case")
	}
}

func strPtr(s string) *string { return &s }
