//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/networkbrain/brain/internal/huberrors"
	"github.com/networkbrain/brain/internal/models"
	"github.com/networkbrain/brain/pkg/database"
	"github.com/networkbrain/brain/pkg/embeddings"
)

const testDimensions = 1536

func setupDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctx := context.Background()

	ctr, err := postgres.Run(ctx, "pgvector/pgvector:pg16",
		postgres.WithDatabase("network_brain"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.WithInitScripts("../../migrations/001_initial_schema.sql"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := database.NewPostgresPool(ctx, connStr, database.WithVectorTypes())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

// axisVector returns a unit vector mostly along dimension i with a little weight on j.
func axisVector(i, j int, mix float32) []float32 {
	v := make([]float32, testDimensions)
	v[i] = 1
	v[j] = mix
	embeddings.NormalizeL2(v)

	return v
}

func TestRepositories_Integration(t *testing.T) {
	pool := setupDatabase(t)
	ctx := context.Background()

	people := NewPeopleRepository(pool)
	notes := NewNotesRepository(pool)
	intros := NewIntroductionsRepository(pool)
	communities := NewCommunitiesRepository(pool)
	prompts := NewSystemPromptsRepository(pool)
	events := NewEventsRepository(pool)

	upsert := func(name, email string) *models.Person {
		p, err := people.UpsertByEmail(ctx, models.UpsertPersonInput{Name: name, Email: email})
		require.NoError(t, err)

		return p
	}

	t.Run("upsert by email is idempotent on the conflict key", func(t *testing.T) {
		first := upsert("Ada", "Ada@Example.com")
		title := "Analyst"
		second, err := people.UpsertByEmail(ctx, models.UpsertPersonInput{Name: "Ada L.", Email: "ada@example.com", Title: &title})
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "Ada L.", second.Name)
		assert.Equal(t, "Analyst", models.StringValue(second.Title))
		assert.False(t, second.HasEmbedding)
	})

	t.Run("similarity search honours threshold, limit and exclusion", func(t *testing.T) {
		source := upsert("Source", "source@example.com")
		close1 := upsert("Close", "close@example.com")
		far := upsert("Far", "far@example.com")

		require.NoError(t, people.SetEmbedding(ctx, source.ID, axisVector(0, 1, 0), models.EmbeddingMetadata{Version: 1, Model: "test"}))
		require.NoError(t, people.SetEmbedding(ctx, close1.ID, axisVector(0, 1, 0.2), models.EmbeddingMetadata{Version: 1, Model: "test"}))
		require.NoError(t, people.SetEmbedding(ctx, far.ID, axisVector(5, 6, 0), models.EmbeddingMetadata{Version: 1, Model: "test"}))

		got, err := people.Get(ctx, source.ID)
		require.NoError(t, err)
		require.True(t, got.HasEmbedding)
		require.Len(t, got.Embedding, testDimensions)
		assert.Equal(t, "test", got.EmbeddingMetadata.Model)

		matches, err := people.MatchPeople(ctx, got.Embedding, 0.78, 5, source.ID)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, close1.ID, matches[0].ID)
		assert.InDelta(t, embeddings.CosineSimilarity(axisVector(0, 1, 0), axisVector(0, 1, 0.2)), matches[0].Similarity, 1e-3)

		missing, err := people.ListMissingEmbeddings(ctx, 100, 0)
		require.NoError(t, err)
		assert.NotContains(t, missing, source.ID)
	})

	t.Run("soft-deleted person is not found", func(t *testing.T) {
		p := upsert("Gone", "gone@example.com")
		require.NoError(t, people.SoftDelete(ctx, p.ID))

		_, err := people.Get(ctx, p.ID)
		require.ErrorIs(t, err, huberrors.ErrNotFound)

		err = people.SoftDelete(ctx, p.ID)
		require.ErrorIs(t, err, huberrors.ErrNotFound)
	})

	t.Run("introductions reject self pairs and list both roles", func(t *testing.T) {
		a := upsert("A", "a@example.com")
		b := upsert("B", "b@example.com")

		created, err := intros.Create(ctx, models.CreateIntroductionInput{
			PersonAID: a.ID, PersonBID: b.ID, MatchScore: 0.9,
			Rationale: models.Rationale{ForSource: "x", ForTarget: "y"},
		})
		require.NoError(t, err)
		assert.Equal(t, models.IntroductionGenerated, created.Status)

		_, err = intros.Create(ctx, models.CreateIntroductionInput{PersonAID: a.ID, PersonBID: a.ID, MatchScore: 1})
		require.Error(t, err)

		list, err := intros.ListByPerson(ctx, &models.ListIntroductionsFilters{PersonID: b.ID, Limit: 10})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "x", list[0].Rationale.ForSource)

		updated, err := intros.UpdateStatus(ctx, created.ID, models.IntroductionAccepted)
		require.NoError(t, err)
		assert.Equal(t, models.IntroductionAccepted, updated.Status)

		_, err = intros.UpdateStatus(ctx, uuid.New(), models.IntroductionAccepted)
		require.ErrorIs(t, err, huberrors.ErrNotFound)
	})

	t.Run("community membership upsert", func(t *testing.T) {
		p := upsert("Applicant", "applicant@example.com")

		c1, err := communities.EnsureBySlug(ctx, "founders", "Founders")
		require.NoError(t, err)
		c2, err := communities.EnsureBySlug(ctx, "founders", "Founders")
		require.NoError(t, err)
		assert.Equal(t, c1.ID, c2.ID)

		m, err := communities.UpsertMembership(ctx, c1.ID, p.ID, models.MembershipApplied)
		require.NoError(t, err)
		assert.Equal(t, models.MembershipApplied, m.Status)
	})

	t.Run("system prompts", func(t *testing.T) {
		_, err := prompts.GetByKey(ctx, models.PromptKeyProfile)
		require.ErrorIs(t, err, huberrors.ErrNotFound)

		_, err = prompts.Upsert(ctx, models.PromptKeyProfile, "Profile", "Summarise this person.")
		require.NoError(t, err)

		got, err := prompts.GetByKey(ctx, models.PromptKeyProfile)
		require.NoError(t, err)
		assert.Equal(t, "Summarise this person.", got.Prompt)
	})

	t.Run("events link attendees and notes list newest first", func(t *testing.T) {
		p := upsert("Attendee", "attendee@example.com")

		ev, linked, err := events.Upsert(ctx, models.UpsertEventInput{
			Title:          "Coffee",
			StartTime:      time.Now().Add(-time.Hour),
			Source:         models.EventSourceGoogleCalendar,
			ExternalID:     "gcal-1",
			AttendeeEmails: []string{"ATTENDEE@example.com", "stranger@example.com"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, linked)

		_, linked, err = events.Upsert(ctx, models.UpsertEventInput{
			Title: "Coffee (moved)", StartTime: ev.StartTime, Source: models.EventSourceGoogleCalendar,
			ExternalID: "gcal-1", AttendeeEmails: []string{"attendee@example.com"},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, linked, "existing attendee link is not duplicated")

		list, err := events.ListByPerson(ctx, p.ID, 10, 0)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Coffee (moved)", list[0].Title)

		_, err = notes.Create(ctx, p.ID, "first", models.NoteSourceManual)
		require.NoError(t, err)
		_, err = notes.Create(ctx, p.ID, "second", models.NoteSourceLLM)
		require.NoError(t, err)

		page, err := notes.ListByPerson(ctx, p.ID, 1, 0)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "second", page[0].Content)
	})
}
