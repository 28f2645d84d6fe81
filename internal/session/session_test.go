package session

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilStoreIsNoOp(t *testing.T) {
	var store *Store
	ctx := context.Background()

	assert.NoError(t, store.EnsureSchema(ctx))

	session, err := store.CreateSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.NotEqual(t, uuid.Nil, session.ID)

	got, err := store.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, store.EnsureSession(ctx, session.ID))
	assert.NoError(t, store.AppendInteraction(ctx, Interaction{SessionID: session.ID}))

	history, err := store.History(ctx, session.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, history)

	store.Close()
}

func TestInteractionShape(t *testing.T) {
	interaction := Interaction{
		SessionID:       uuid.New(),
		Query:           "assessments for java developers",
		Intent:          "job_description_query",
		OutcomeKind:     "recommendation",
		Recommendations: []string{"Java Coding Test", "Teamwork Styles"},
	}

	assert.Equal(t, "recommendation", interaction.OutcomeKind)
	assert.Len(t, interaction.Recommendations, 2)
	assert.Equal(t, uuid.Nil, interaction.ID)
}
