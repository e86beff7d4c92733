package extract_test

import (
	"context"
	"testing"

	"github.com/mfurman/provdir/extract"
	goqueryview "github.com/mfurman/provdir/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverCategories(t *testing.T) {
	t.Parallel()

	t.Run("finds header elements and deduplicates titles", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<div id="panel">
	<h4>Business</h4>
	<ul><li>Diploma in Accounting</li></ul>
	<h4>Technology</h4>
	<ul><li>Diploma in Networking</li></ul>
	<h4>Business</h4>
</div>
</body>
</html>`

		v, err := goqueryview.NewView(html)
		require.NoError(t, err)
		ctx := context.Background()

		container, err := v.Find(ctx, "#panel")
		require.NoError(t, err)

		got, err := extract.DiscoverCategories(ctx, v, container)
		require.NoError(t, err)

		require.Len(t, got, 2)
		assert.Equal(t, "Business", got[0].Title)
		assert.Equal(t, "Technology", got[1].Title)
	})

	t.Run("stops at the first granularity with multiple headers", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<div id="panel">
	<h4>Business</h4>
	<h4>Technology</h4>
	<div class="card-header">Something Coarser</div>
</div>
</body>
</html>`

		v, err := goqueryview.NewView(html)
		require.NoError(t, err)
		ctx := context.Background()

		container, err := v.Find(ctx, "#panel")
		require.NoError(t, err)

		got, err := extract.DiscoverCategories(ctx, v, container)
		require.NoError(t, err)

		require.Len(t, got, 2)
		assert.Equal(t, "Business", got[0].Title)
		assert.Equal(t, "Technology", got[1].Title)
	})

	t.Run("falls back to a clickable scan when the container has no headers", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<div id="panel"><p>no headers in here</p></div>
<button id="cat1" data-bs-toggle="collapse">Business Programs</button>
<button id="cat2" data-bs-toggle="collapse">Technology Programs</button>
</body>
</html>`

		v, err := goqueryview.NewView(html)
		require.NoError(t, err)
		ctx := context.Background()

		container, err := v.Find(ctx, "#panel")
		require.NoError(t, err)

		got, err := extract.DiscoverCategories(ctx, v, container)
		require.NoError(t, err)

		var titles []string
		for _, c := range got {
			titles = append(titles, c.Title)
		}
		assert.Contains(t, titles, "Business Programs")
		assert.Contains(t, titles, "Technology Programs")
	})

	t.Run("candidate elements are live handles", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<div id="panel">
	<h4>Business</h4>
	<h4>Technology</h4>
</div>
</body>
</html>`

		v, err := goqueryview.NewView(html)
		require.NoError(t, err)
		ctx := context.Background()

		container, err := v.Find(ctx, "#panel")
		require.NoError(t, err)

		got, err := extract.DiscoverCategories(ctx, v, container)
		require.NoError(t, err)
		require.Len(t, got, 2)

		text, err := v.Text(ctx, got[0].Element)
		require.NoError(t, err)
		assert.Equal(t, "Business", text)
	})
}
