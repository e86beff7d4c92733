package extract_test

import (
	"context"
	"testing"

	"github.com/mfurman/provdir"
	"github.com/mfurman/provdir/extract"
	goqueryview "github.com/mfurman/provdir/goquery"
	"github.com/mfurman/provdir/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocator_Locate(t *testing.T) {
	t.Parallel()

	t.Run("expands a Bootstrap toggle and returns its target panel", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<a role="button" data-bs-toggle="collapse" data-bs-target="#panel1" aria-expanded="false">Programs Offered</a>
<div class="collapse" id="panel1">
	<ul><li>Diploma in Accounting</li></ul>
</div>
</body>
</html>`

		v, err := goqueryview.NewView(html)
		require.NoError(t, err)
		ctx := context.Background()

		l := &extract.Locator{}
		container, err := l.Locate(ctx, v, "Programs Offered")
		require.NoError(t, err)
		require.NotNil(t, container)

		text, err := v.Text(ctx, container)
		require.NoError(t, err)
		assert.Contains(t, text, "Diploma in Accounting")

		visible, err := v.Visible(ctx, container)
		require.NoError(t, err)
		assert.True(t, visible)
	})

	t.Run("falls back to a sibling panel when the toggle has no target", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<div class="card-header">Programs Offered</div>
<div class="collapse show card-panel">
	<ul><li>Certificate in Marketing</li></ul>
</div>
</body>
</html>`

		v, err := goqueryview.NewView(html)
		require.NoError(t, err)
		ctx := context.Background()

		l := &extract.Locator{}
		container, err := l.Locate(ctx, v, "Programs Offered")
		require.NoError(t, err)
		require.NotNil(t, container)

		text, err := v.Text(ctx, container)
		require.NoError(t, err)
		assert.Contains(t, text, "Certificate in Marketing")
	})

	t.Run("does not re-click an already expanded toggle", func(t *testing.T) {
		t.Parallel()

		clicks := 0
		v := &mock.View{
			WaitForTextFn: func(ctx context.Context, selector, text string, opts provdir.WaitOptions) (provdir.Element, error) {
				return "trigger", nil
			},
			AttributeFn: func(ctx context.Context, el provdir.Element, name string) (string, error) {
				if name == "aria-expanded" {
					return "true", nil
				}
				if name == "data-bs-target" {
					return "#panel1", nil
				}
				return "", nil
			},
			ClickFn: func(ctx context.Context, el provdir.Element) error {
				clicks++
				return nil
			},
			WaitForFn: func(ctx context.Context, selector string, opts provdir.WaitOptions) (provdir.Element, error) {
				return "panel", nil
			},
			VisibleFn: func(ctx context.Context, el provdir.Element) (bool, error) {
				return true, nil
			},
		}

		l := &extract.Locator{}
		container, err := l.Locate(context.Background(), v, "Programs Offered")
		require.NoError(t, err)
		assert.Equal(t, "panel", container)
		assert.Zero(t, clicks)
	})

	t.Run("reports ENOTFOUND when no strategy matches", func(t *testing.T) {
		t.Parallel()

		v, err := goqueryview.NewView(`<html><body><p>Nothing to see.</p></body></html>`)
		require.NoError(t, err)

		_, err = (&extract.Locator{}).Locate(context.Background(), v, "Programs Offered")
		assert.Equal(t, provdir.ENOTFOUND, provdir.ErrorCode(err))
	})

	t.Run("per-strategy errors are swallowed, not raised", func(t *testing.T) {
		t.Parallel()

		v := &mock.View{
			WaitForTextFn: func(ctx context.Context, selector, text string, opts provdir.WaitOptions) (provdir.Element, error) {
				return nil, provdir.Errorf(provdir.EINTERNAL, "browser hiccup")
			},
		}

		_, err := (&extract.Locator{}).Locate(context.Background(), v, "Programs Offered")
		assert.Equal(t, provdir.ENOTFOUND, provdir.ErrorCode(err))
	})
}
