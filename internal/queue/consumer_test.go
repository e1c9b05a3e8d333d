package queue

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/tattler/internal/logger"
	"github.com/iliyamo/tattler/internal/model"
)

func TestHandleWritesCommentActivity(t *testing.T) {
	var buf bytes.Buffer
	c := NewReviewConsumer("", &buf, logger.Nop())

	ev := CommentCreated(&model.Comment{
		ID: 3, RestaurantID: 9, AuthorID: 4, Body: "lovely",
		Date: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	})
	body, err := json.Marshal(ev)
	require.NoError(t, err)
	require.NoError(t, c.handle(body))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "comment created", line["message"])
	assert.Equal(t, "comment", line["kind"])
	assert.Equal(t, float64(9), line["restaurant_id"])
	assert.Equal(t, "lovely", line["comment"])
	assert.Equal(t, "2024-03-01T08:00:00Z", line["created_at"])
}

func TestHandleWritesRatingActivity(t *testing.T) {
	var buf bytes.Buffer
	c := NewReviewConsumer("", &buf, logger.Nop())

	body, err := json.Marshal(RatingCreated(&model.Rating{ID: 1, RestaurantID: 2, AuthorID: 3, Score: 4.5}))
	require.NoError(t, err)
	require.NoError(t, c.handle(body))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, 4.5, line["rating"])
	assert.Equal(t, "rating created", line["message"])
}

func TestHandleRejectsBadMessages(t *testing.T) {
	var buf bytes.Buffer
	c := NewReviewConsumer("", &buf, logger.Nop())

	assert.Error(t, c.handle([]byte("{not json")))
	assert.Error(t, c.handle([]byte(`{"kind":"rating","review_id":1}`)))
	assert.Error(t, c.handle([]byte(`{"kind":"reservation"}`)))
	assert.Zero(t, buf.Len())
}

func TestOpenActivityLogCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "reviews.log")
	f, err := OpenActivityLog(path)
	require.NoError(t, err)
	_, err = f.WriteString("x\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x\n", string(data))
}
