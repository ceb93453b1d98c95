package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var attachmentColumnNames = []string{
	"room_tag_id", "room_id", "start_at", "end_at", "created_at", "updated_at",
	"tag_id", "name", "source_address", "description", "created_at", "updated_at",
}

func TestResolveAttachments_ActiveAt(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewPostgresAttachmentsRepository(db)

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(attachmentColumnNames).
		AddRow(int64(11), int64(1), start, nil, created, created,
			int64(5), "capteur-101", "aa:bb:cc:01", nil, created, created).
		AddRow(int64(12), int64(2), start, nil, created, created,
			int64(6), "capteur-102", "aa:bb:cc:02", "couloir", created, created)

	mock.ExpectQuery(`FROM room_tags rt\s+JOIN tags t`).
		WithArgs(pq.Array([]int64{1, 2}), at, at).
		WillReturnRows(rows)

	result, err := repo.ResolveAttachments(context.Background(), []int64{1, 2}, &at)
	require.NoError(t, err)
	require.Len(t, result, 2)

	require.Len(t, result[1], 1)
	a := result[1][0]
	assert.Equal(t, int64(11), a.AttachmentID)
	assert.Equal(t, "aa:bb:cc:01", a.Tag.SourceAddress)
	assert.Nil(t, a.EndAt)
	assert.True(t, a.ActiveAt(at))

	require.Len(t, result[2], 1)
	require.NotNil(t, result[2][0].Tag.Description)
	assert.Equal(t, "couloir", *result[2][0].Tag.Description)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveAttachments_NoReferenceInstant(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewPostgresAttachmentsRepository(db)

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	start := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)

	// at 为空：返回全部关联历史（包括已结束的区间）
	rows := sqlmock.NewRows(attachmentColumnNames).
		AddRow(int64(11), int64(1), start, end, created, created,
			int64(5), "capteur-101", "aa:bb:cc:01", nil, created, created).
		AddRow(int64(13), int64(1), end, nil, created, created,
			int64(7), "capteur-103", "aa:bb:cc:03", nil, created, created)

	mock.ExpectQuery(`FROM room_tags rt\s+JOIN tags t`).
		WithArgs(pq.Array([]int64{1})).
		WillReturnRows(rows)

	result, err := repo.ResolveAttachments(context.Background(), []int64{1}, nil)
	require.NoError(t, err)
	require.Len(t, result[1], 2)
	require.NotNil(t, result[1][0].EndAt)
	assert.Equal(t, end, *result[1][0].EndAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveAttachments_UnknownRoomAbsent(t *testing.T) {
	db, mock := setupMockDB(t)
	defer db.Close()
	repo := NewPostgresAttachmentsRepository(db)

	rows := sqlmock.NewRows(attachmentColumnNames)

	mock.ExpectQuery(`FROM room_tags rt\s+JOIN tags t`).
		WithArgs(pq.Array([]int64{9999})).
		WillReturnRows(rows)

	result, err := repo.ResolveAttachments(context.Background(), []int64{9999}, nil)
	require.NoError(t, err)
	assert.Empty(t, result)

	assert.NoError(t, mock.ExpectationsWereMet())
}
