package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jrenard/flashdeck-api/internal/domain"
	"github.com/jrenard/flashdeck-api/internal/platform/postgres"
	"github.com/jrenard/flashdeck-api/internal/store"
)

const testTimeout = 5 * time.Second

// testDB is shared by all integration tests in this package. It stays nil
// when FLASHDECK_TEST_DATABASE_URL is not set and the package is skipped.
var testDB *sql.DB

func TestMain(m *testing.M) {
	dbURL := os.Getenv("FLASHDECK_TEST_DATABASE_URL")
	if dbURL == "" {
		os.Exit(0)
	}

	var err error
	testDB, err = sql.Open("pgx", dbURL)
	if err != nil {
		fmt.Printf("failed to open database connection: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()
	if err := testDB.PingContext(ctx); err != nil {
		fmt.Printf("failed to ping database: %v\n", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrations(testDB, nil); err != nil {
		fmt.Printf("failed to apply migrations: %v\n", err)
		os.Exit(1)
	}

	exitCode := m.Run()

	if err := testDB.Close(); err != nil {
		fmt.Printf("failed to close database connection: %v\n", err)
	}

	os.Exit(exitCode)
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	t.Cleanup(cancel)
	return ctx
}

// createTestUser inserts a fresh user and returns it. Each test gets its own
// user so tests stay independent of each other's rows.
func createTestUser(t *testing.T, ctx context.Context) *domain.User {
	t.Helper()

	userStore := postgres.NewUserStore(testDB, bcrypt.MinCost, nil)
	user, err := domain.NewUser(fmt.Sprintf("user-%s@example.com", uuid.New()), "password123")
	require.NoError(t, err)
	require.NoError(t, userStore.Create(ctx, user))

	t.Cleanup(func() {
		_, _ = testDB.Exec("DELETE FROM users WHERE id = $1", user.ID)
	})
	return user
}

func testCards() []domain.Flashcard {
	return []domain.Flashcard{
		{Question: "Capital of France?", Answer: "Paris"},
		{Question: "Capital of Spain?", Answer: "Madrid"},
	}
}

func TestUserStoreCreateAndGet(t *testing.T) {
	ctx := testContext(t)
	userStore := postgres.NewUserStore(testDB, bcrypt.MinCost, nil)

	user := createTestUser(t, ctx)

	// The plaintext password is cleared after hashing
	assert.Empty(t, user.Password)
	assert.NotEmpty(t, user.HashedPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("password123")))

	byID, err := userStore.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, byID.Email)

	byEmail, err := userStore.GetByEmail(ctx, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestUserStoreDuplicateEmail(t *testing.T) {
	ctx := testContext(t)
	userStore := postgres.NewUserStore(testDB, bcrypt.MinCost, nil)

	user := createTestUser(t, ctx)

	dup, err := domain.NewUser(user.Email, "password456")
	require.NoError(t, err)
	err = userStore.Create(ctx, dup)
	assert.ErrorIs(t, err, store.ErrEmailExists)
}

func TestUserStoreEmailCaseInsensitive(t *testing.T) {
	ctx := testContext(t)
	userStore := postgres.NewUserStore(testDB, bcrypt.MinCost, nil)

	user := createTestUser(t, ctx)

	// The same address with different casing is the same account
	dup, err := domain.NewUser(strings.ToUpper(user.Email), "password456")
	require.NoError(t, err)
	err = userStore.Create(ctx, dup)
	assert.ErrorIs(t, err, store.ErrEmailExists)

	found, err := userStore.GetByEmail(ctx, strings.ToUpper(user.Email))
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

func TestUserStoreGetMissing(t *testing.T) {
	ctx := testContext(t)
	userStore := postgres.NewUserStore(testDB, bcrypt.MinCost, nil)

	_, err := userStore.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	_, err = userStore.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestDeckStoreRoundTrip(t *testing.T) {
	ctx := testContext(t)
	deckStore := postgres.NewDeckStore(testDB, nil)

	user := createTestUser(t, ctx)

	deck, err := domain.NewDeck(user.ID, "Capitals of Europe", testCards())
	require.NoError(t, err)
	require.NoError(t, deckStore.Create(ctx, deck))

	got, err := deckStore.GetByID(ctx, user.ID, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, deck.Topic, got.Topic)
	require.Len(t, got.Cards, 2)
	assert.Equal(t, "Paris", got.Cards[0].Answer)

	decks, err := deckStore.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Equal(t, deck.ID, decks[0].ID)

	require.NoError(t, deckStore.Delete(ctx, user.ID, deck.ID))
	_, err = deckStore.GetByID(ctx, user.ID, deck.ID)
	assert.ErrorIs(t, err, store.ErrDeckNotFound)
}

func TestDeckStoreListOrdersNewestFirst(t *testing.T) {
	ctx := testContext(t)
	deckStore := postgres.NewDeckStore(testDB, nil)

	user := createTestUser(t, ctx)

	older, err := domain.NewDeck(user.ID, "Older", testCards())
	require.NoError(t, err)
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, deckStore.Create(ctx, older))

	newer, err := domain.NewDeck(user.ID, "Newer", testCards())
	require.NoError(t, err)
	require.NoError(t, deckStore.Create(ctx, newer))

	decks, err := deckStore.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, decks, 2)
	assert.Equal(t, "Newer", decks[0].Topic)
	assert.Equal(t, "Older", decks[1].Topic)
}

func TestDeckStoreScopedToOwner(t *testing.T) {
	ctx := testContext(t)
	deckStore := postgres.NewDeckStore(testDB, nil)

	owner := createTestUser(t, ctx)
	other := createTestUser(t, ctx)

	deck, err := domain.NewDeck(owner.ID, "Private deck", testCards())
	require.NoError(t, err)
	require.NoError(t, deckStore.Create(ctx, deck))

	_, err = deckStore.GetByID(ctx, other.ID, deck.ID)
	assert.ErrorIs(t, err, store.ErrDeckNotFound)

	err = deckStore.Delete(ctx, other.ID, deck.ID)
	assert.ErrorIs(t, err, store.ErrDeckNotFound)

	// The owner's copy survived the foreign delete attempt
	_, err = deckStore.GetByID(ctx, owner.ID, deck.ID)
	assert.NoError(t, err)
}

func TestDeckStoreRejectsGuestDecks(t *testing.T) {
	ctx := testContext(t)
	deckStore := postgres.NewDeckStore(testDB, nil)

	deck, err := domain.NewGuestDeck("Guest topic", testCards())
	require.NoError(t, err)

	err = deckStore.Create(ctx, deck)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestDeckStoreRequiresIdentity(t *testing.T) {
	ctx := testContext(t)
	deckStore := postgres.NewDeckStore(testDB, nil)

	_, err := deckStore.ListByUser(ctx, uuid.Nil)
	assert.ErrorIs(t, err, store.ErrUnauthenticated)

	_, err = deckStore.GetByID(ctx, uuid.Nil, uuid.New().String())
	assert.ErrorIs(t, err, store.ErrUnauthenticated)

	err = deckStore.Delete(ctx, uuid.Nil, uuid.New().String())
	assert.ErrorIs(t, err, store.ErrUnauthenticated)
}

func TestDeckStoreCreateRequiresExistingUser(t *testing.T) {
	ctx := testContext(t)
	deckStore := postgres.NewDeckStore(testDB, nil)

	deck, err := domain.NewDeck(uuid.New(), "Orphan deck", testCards())
	require.NoError(t, err)

	err = deckStore.Create(ctx, deck)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}
