package store

import (
	"context"
	"testing"
	"time"

	"github.com/blackwell-systems/codepulse/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func testActivity(username string, ts time.Time, typ event.Type, file string) event.Activity {
	return event.Activity{
		Username:  username,
		SessionID: "sess-1",
		Type:      typ,
		Timestamp: ts,
		FileName:  file,
	}
}

func TestInsertAndQueryActivities(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	size := int64(25)
	a := testActivity("alice", base, event.TypeEdit, "main.go")
	a.Language = "go"
	a.ProjectFolder = "codepulse"
	a.ChangeSize = &size

	require.NoError(t, db.InsertActivities(ctx, []event.Activity{
		a,
		testActivity("alice", base.Add(time.Minute), event.TypeSave, "main.go"),
		testActivity("bob", base, event.TypeEdit, "other.go"),
	}))

	got, err := db.Activities(ctx, ActivityFilter{Username: "alice"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest first.
	assert.Equal(t, event.TypeSave, got[0].Type)
	assert.Equal(t, event.TypeEdit, got[1].Type)

	// Round trip preserves optional fields and absence.
	assert.Equal(t, "go", got[1].Language)
	assert.Equal(t, "codepulse", got[1].ProjectFolder)
	require.NotNil(t, got[1].ChangeSize)
	assert.EqualValues(t, 25, *got[1].ChangeSize)
	assert.Nil(t, got[0].ChangeSize)
	assert.Nil(t, got[0].FileSize)
	assert.Equal(t, base.Add(time.Minute), got[0].Timestamp)
}

func TestActivities_Filters(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	var batch []event.Activity
	for i := 0; i < 10; i++ {
		typ := event.TypeEdit
		if i%2 == 1 {
			typ = event.TypeFocus
		}
		batch = append(batch, testActivity("alice", base.AddDate(0, 0, i), typ, "f.go"))
	}
	require.NoError(t, db.InsertActivities(ctx, batch))

	byType, err := db.Activities(ctx, ActivityFilter{Username: "alice", Type: event.TypeFocus})
	require.NoError(t, err)
	assert.Len(t, byType, 5)

	ranged, err := db.Activities(ctx, ActivityFilter{
		Username: "alice",
		From:     base.AddDate(0, 0, 2),
		To:       base.AddDate(0, 0, 4),
	})
	require.NoError(t, err)
	assert.Len(t, ranged, 3)

	limited, err := db.Activities(ctx, ActivityFilter{Username: "alice", Limit: 3})
	require.NoError(t, err)
	assert.Len(t, limited, 3)
}

func TestActivities_DefaultLimit(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	var batch []event.Activity
	for i := 0; i < DefaultQueryLimit+20; i++ {
		batch = append(batch, testActivity("alice", base.Add(time.Duration(i)*time.Minute), event.TypeEdit, "f.go"))
	}
	require.NoError(t, db.InsertActivities(ctx, batch))

	got, err := db.Activities(ctx, ActivityFilter{Username: "alice"})
	require.NoError(t, err)
	assert.Len(t, got, DefaultQueryLimit)
}

func TestActivitiesInRange_AscendingUnbounded(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	var batch []event.Activity
	for i := 0; i < DefaultQueryLimit+20; i++ {
		batch = append(batch, testActivity("alice", base.Add(time.Duration(i)*time.Minute), event.TypeEdit, "f.go"))
	}
	require.NoError(t, db.InsertActivities(ctx, batch))

	got, err := db.ActivitiesInRange(ctx, "alice", base, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, DefaultQueryLimit+20)
	assert.True(t, got[0].Timestamp.Before(got[len(got)-1].Timestamp), "oldest first")
}

func TestDeleteActivities(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	var batch []event.Activity
	for i := 0; i < 5; i++ {
		batch = append(batch, testActivity("alice", base.AddDate(0, 0, i), event.TypeEdit, "f.go"))
	}
	batch = append(batch, testActivity("bob", base, event.TypeEdit, "g.go"))
	require.NoError(t, db.InsertActivities(ctx, batch))

	deleted, err := db.DeleteActivities(ctx, "alice", base.AddDate(0, 0, 1), base.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.EqualValues(t, 3, deleted)

	remaining, err := db.Activities(ctx, ActivityFilter{Username: "alice"})
	require.NoError(t, err)
	assert.Len(t, remaining, 2)

	// Other users untouched.
	bobs, err := db.Activities(ctx, ActivityFilter{Username: "bob"})
	require.NoError(t, err)
	assert.Len(t, bobs, 1)

	// Unbounded delete removes the rest.
	deleted, err = db.DeleteActivities(ctx, "alice", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)
}

func TestInsertActivities_EmptyBatch(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.InsertActivities(context.Background(), nil))
}
