package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ratingPost struct {
	VideoID string `json:"videoId" validate:"required"`
	Rating  int    `json:"rating" validate:"min=1,max=5"`
}

func TestPlaygroundV10_Struct(t *testing.T) {
	v := NewValidator()

	assert.Nil(t, v.Struct(&ratingPost{VideoID: "v1", Rating: 5}))

	errs := v.Struct(&ratingPost{Rating: 6})
	require.Len(t, errs, 2)
	assert.Equal(t, "videoId", errs[0].Domain)
	assert.Equal(t, "rating", errs[1].Domain)
	assert.Contains(t, errs[0].Reason, "videoId")
}

func TestPlaygroundV10_StructTranslated(t *testing.T) {
	v := NewValidator()

	en := v.Struct(&ratingPost{Rating: 3}, "en-US")
	pt := v.Struct(&ratingPost{Rating: 3}, "pt-BR,pt;q=0.9")
	require.Len(t, en, 1)
	require.Len(t, pt, 1)
	assert.NotEqual(t, en[0].Reason, pt[0].Reason)
}

func TestPlaygroundV10_Empty(t *testing.T) {
	v := NewValidator()

	assert.Nil(t, v.Empty("userId", "u1"))
	errs := v.Empty("userId", "")
	require.Len(t, errs, 1)
	assert.Equal(t, "userId is required", errs[0].Reason)
}

func TestNormalizeLocales(t *testing.T) {
	assert.Equal(t, []string{"pt_BR", "pt", "en"}, normalizeLocales([]string{"pt-BR,pt;q=0.9", "en;q=0.5,*"}))
	assert.Empty(t, normalizeLocales(nil))
}
