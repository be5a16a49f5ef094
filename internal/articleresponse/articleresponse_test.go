package articleresponse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SergeyParamoshkin/writerhub/internal/model"
)

func TestArticleResponse_JSON(t *testing.T) {
	writer := int64(42)
	name := "Jane Doe"

	resp := NewArticleResponse(&model.ArticleView{
		Article: model.Article{
			ID:        1,
			Title:     "A",
			Date:      "2024-01-01",
			Status:    model.StatusForEdit,
			WriterID:  &writer,
			CompanyID: 1,
		},
		WriterName: &name,
	})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, "For Edit", got["status"])
	assert.Equal(t, float64(42), got["writerId"])
	assert.Equal(t, "Jane Doe", got["writerName"])
	assert.Contains(t, got, "editorId")
	assert.Nil(t, got["editorId"])
	assert.Nil(t, got["editorName"])
}

func TestNewArticleListResponse(t *testing.T) {
	list := NewArticleListResponse([]model.ArticleView{
		{Article: model.Article{ID: 1}},
		{Article: model.Article{ID: 2}},
	})

	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[1].(*ArticleResponse).ID)

	assert.Empty(t, NewArticleListResponse(nil))
	assert.NotNil(t, NewArticleListResponse(nil), "renders as [] rather than null")
}
