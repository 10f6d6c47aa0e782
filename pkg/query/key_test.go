package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demoforums/forumclient/pkg/query"
)

func TestKey_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `["currentUser"]`, query.NewKey("currentUser").String())
	assert.Equal(t, `["posts","go",2,null]`, query.NewKey("posts", "go", 2, nil).String())

	var pageSize *int
	assert.Equal(t, `["posts","go",null,null]`, query.NewKey("posts", "go", nil, pageSize).String())
}

func TestKey_Identity(t *testing.T) {
	t.Parallel()

	assert.True(t, query.NewKey("post", "go", 1).Equal(query.NewKey("post", "go", 1)))
	assert.False(t, query.NewKey("post", "go", 1).Equal(query.NewKey("post", "go", "1")))
	assert.False(t, query.NewKey("posts", "go").Equal(query.NewKey("posts", "go", nil)))
	assert.False(t, query.NewKey("a,b").Equal(query.NewKey("a", "b")))
}

func TestKey_HasPrefix(t *testing.T) {
	t.Parallel()

	full := query.NewKey("posts", "go", 1, 10)

	assert.True(t, full.HasPrefix(query.NewKey("posts")))
	assert.True(t, full.HasPrefix(query.NewKey("posts", "go")))
	assert.True(t, full.HasPrefix(full))
	assert.True(t, full.HasPrefix(query.Key{}))
	assert.False(t, full.HasPrefix(query.NewKey("posts", "rust")))
	assert.False(t, full.HasPrefix(query.NewKey("post")))
	assert.False(t, query.NewKey("posts").HasPrefix(full))
}

func TestParseKey(t *testing.T) {
	t.Parallel()

	k := query.NewKey("comments", "go", 7)
	parsed, err := query.ParseKey(k.String())
	require.NoError(t, err)
	assert.True(t, parsed.Equal(k))
	assert.Equal(t, 3, parsed.Len())

	parsed, err = query.ParseKey(`[ "comments", "go" ,  7 ]`)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(k))

	_, err = query.ParseKey("comments:go:7")
	require.ErrorIs(t, err, query.ErrInvalidKey)
}
