package goquery_test

import (
	"context"
	"strings"
	"testing"

	"github.com/mfurman/provdir"
	"github.com/mfurman/provdir/goquery"
	"github.com/mfurman/provdir/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure View implements provdir.DocumentView at compile time.
var _ provdir.DocumentView = (*goquery.View)(nil)

func TestView_Find(t *testing.T) {
	t.Parallel()

	t.Run("finds first matching element", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<h4 class="title">First</h4>
<h4 class="title">Second</h4>
</body>
</html>`

		v, err := goquery.NewView(html)
		require.NoError(t, err)

		el, err := v.Find(context.Background(), "h4.title")
		require.NoError(t, err)
		require.NotNil(t, el)

		text, err := v.Text(context.Background(), el)
		require.NoError(t, err)
		assert.Equal(t, "First", text)
	})

	t.Run("returns nil without error when nothing matches", func(t *testing.T) {
		t.Parallel()

		v, err := goquery.NewView(`<html><body><p>x</p></body></html>`)
		require.NoError(t, err)

		el, err := v.Find(context.Background(), ".missing")
		require.NoError(t, err)
		assert.Nil(t, el)
	})
}

func TestView_WaitForText(t *testing.T) {
	t.Parallel()

	t.Run("matches element containing the text", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<h4>About Us</h4>
<h4>Programs Offered</h4>
</body>
</html>`

		v, err := goquery.NewView(html)
		require.NoError(t, err)

		el, err := v.WaitForText(context.Background(), "h4", "Programs Offered", provdir.WaitOptions{})
		require.NoError(t, err)

		text, err := v.Text(context.Background(), el)
		require.NoError(t, err)
		assert.Equal(t, "Programs Offered", text)
	})

	t.Run("reports ENOTFOUND when no element carries the text", func(t *testing.T) {
		t.Parallel()

		v, err := goquery.NewView(`<html><body><h4>About Us</h4></body></html>`)
		require.NoError(t, err)

		_, err = v.WaitForText(context.Background(), "h4", "Programs Offered", provdir.WaitOptions{})
		assert.Equal(t, provdir.ENOTFOUND, provdir.ErrorCode(err))
	})

	t.Run("skips hidden elements when visibility is required", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<div style="display: none"><h4>Programs Offered</h4></div>
</body>
</html>`

		v, err := goquery.NewView(html)
		require.NoError(t, err)

		_, err = v.WaitForText(context.Background(), "h4", "Programs Offered", provdir.WaitOptions{Visible: true})
		assert.Equal(t, provdir.ENOTFOUND, provdir.ErrorCode(err))
	})
}

func TestView_Visible(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<body>
<div id="plain">visible</div>
<div id="styled" style="display: none">hidden</div>
<div class="collapse"><p id="collapsed">hidden</p></div>
<div class="collapse show"><p id="expanded">visible</p></div>
<div class="d-none"><span id="utility">hidden</span></div>
</body>
</html>`

	v, err := goquery.NewView(html)
	require.NoError(t, err)
	ctx := context.Background()

	for _, tt := range []struct {
		id      string
		visible bool
	}{
		{"plain", true},
		{"styled", false},
		{"collapsed", false},
		{"expanded", true},
		{"utility", false},
	} {
		el, err := v.Find(ctx, "#"+tt.id)
		require.NoError(t, err)
		require.NotNil(t, el, tt.id)

		got, err := v.Visible(ctx, el)
		require.NoError(t, err)
		assert.Equal(t, tt.visible, got, tt.id)
	}
}

func TestView_Click(t *testing.T) {
	t.Parallel()

	t.Run("expands the collapse panel named by data-bs-target", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<button data-bs-toggle="collapse" data-bs-target="#panel1" aria-expanded="false">Business</button>
<div class="collapse" id="panel1"><ul><li>Diploma in Accounting</li></ul></div>
</body>
</html>`

		v, err := goquery.NewView(html)
		require.NoError(t, err)
		ctx := context.Background()

		panel, err := v.Find(ctx, "#panel1")
		require.NoError(t, err)
		visible, err := v.Visible(ctx, panel)
		require.NoError(t, err)
		require.False(t, visible)

		btn, err := v.Find(ctx, "button")
		require.NoError(t, err)
		require.NoError(t, v.Click(ctx, btn))

		expanded, err := v.Attribute(ctx, btn, "aria-expanded")
		require.NoError(t, err)
		assert.Equal(t, "true", expanded)

		visible, err = v.Visible(ctx, panel)
		require.NoError(t, err)
		assert.True(t, visible)
	})

	t.Run("tolerates toggles without a target", func(t *testing.T) {
		t.Parallel()

		v, err := goquery.NewView(`<html><body><a href="/about">About</a></body></html>`)
		require.NoError(t, err)

		el, err := v.Find(context.Background(), "a")
		require.NoError(t, err)
		assert.NoError(t, v.Click(context.Background(), el))
	})
}

func TestView_Text(t *testing.T) {
	t.Parallel()

	t.Run("separates block elements with line breaks", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<div id="c">
	<h4>Business</h4>
	<ul><li>Diploma in Accounting</li><li>Certificate in Marketing</li></ul>
</div>
</body>
</html>`

		v, err := goquery.NewView(html)
		require.NoError(t, err)

		el, err := v.Find(context.Background(), "#c")
		require.NoError(t, err)

		text, err := v.Text(context.Background(), el)
		require.NoError(t, err)
		assert.Contains(t, text, "Business")
		assert.Contains(t, text, "Diploma in Accounting\n")
		assert.Contains(t, text, "Certificate in Marketing")
	})

	t.Run("flattened lines carry no trailing spaces", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<div id="c">
	<h4>Business</h4>
	<ul><li>Diploma in <b>Accounting</b></li><li>Certificate in Marketing</li></ul>
</div>
</body>
</html>`

		v, err := goquery.NewView(html)
		require.NoError(t, err)

		el, err := v.Find(context.Background(), "#c")
		require.NoError(t, err)

		text, err := v.Text(context.Background(), el)
		require.NoError(t, err)
		for _, line := range strings.Split(text, "\n") {
			assert.Equal(t, strings.TrimRight(line, " \t"), line)
		}
		assert.Contains(t, text, "Diploma in Accounting\n")
	})

	t.Run("joins adjacent inline text with spaces", func(t *testing.T) {
		t.Parallel()

		v, err := goquery.NewView(`<html><body><p id="p"><b>Diploma</b> in <i>Business</i></p></body></html>`)
		require.NoError(t, err)

		el, err := v.Find(context.Background(), "#p")
		require.NoError(t, err)

		text, err := v.Text(context.Background(), el)
		require.NoError(t, err)
		assert.Equal(t, "Diploma in Business", text)
	})
}

func TestView_Navigate(t *testing.T) {
	t.Parallel()

	t.Run("replaces the document through the fetcher", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return `<html><body><h1>Second Page</h1></body></html>`, nil
			},
		}

		v, err := goquery.NewView(`<html><body><h1>First Page</h1></body></html>`, goquery.WithFetcher(fetcher))
		require.NoError(t, err)
		ctx := context.Background()

		require.NoError(t, v.Navigate(ctx, "https://example.com/page/2"))

		el, err := v.Find(ctx, "h1")
		require.NoError(t, err)
		text, err := v.Text(ctx, el)
		require.NoError(t, err)
		assert.Equal(t, "Second Page", text)
	})

	t.Run("reports EUNAVAILABLE without a fetcher", func(t *testing.T) {
		t.Parallel()

		v, err := goquery.NewView(`<html><body></body></html>`)
		require.NoError(t, err)

		err = v.Navigate(context.Background(), "https://example.com")
		assert.Equal(t, provdir.EUNAVAILABLE, provdir.ErrorCode(err))
	})
}

func TestView_Eval(t *testing.T) {
	t.Parallel()

	t.Run("force visible marks the target expanded", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<div class="collapse" id="panel1"><ul><li>Item One</li></ul></div>
</body>
</html>`

		v, err := goquery.NewView(html)
		require.NoError(t, err)
		ctx := context.Background()

		_, err = v.Eval(ctx, provdir.ScriptForceVisible, "panel1")
		require.NoError(t, err)

		panel, err := v.Find(ctx, "#panel1")
		require.NoError(t, err)
		visible, err := v.Visible(ctx, panel)
		require.NoError(t, err)
		assert.True(t, visible)
	})

	t.Run("container items lists visible leaf texts", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<div id="panel1">
	<ul>
		<li>Diploma in Accounting</li>
		<li>Certificate in Marketing</li>
	</ul>
</div>
</body>
</html>`

		v, err := goquery.NewView(html)
		require.NoError(t, err)

		out, err := v.Eval(context.Background(), provdir.ScriptContainerItems, "panel1")
		require.NoError(t, err)

		items, ok := out.([]any)
		require.True(t, ok)
		assert.Contains(t, items, "Diploma in Accounting")
		assert.Contains(t, items, "Certificate in Marketing")
	})

	t.Run("visible containers prefers lists", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<ul>
	<li>Diploma in Accounting</li>
	<li>Certificate in Marketing</li>
</ul>
<div class="collapse"><ul><li>Hidden Item</li></ul></div>
</body>
</html>`

		v, err := goquery.NewView(html)
		require.NoError(t, err)

		out, err := v.Eval(context.Background(), provdir.ScriptVisibleContainers, nil)
		require.NoError(t, err)

		containers, ok := out.([]any)
		require.True(t, ok)
		require.Len(t, containers, 1)

		first, ok := containers[0].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "list", first["type"])
		assert.Equal(t, []any{"Diploma in Accounting", "Certificate in Marketing"}, first["items"])
	})

	t.Run("unknown scripts report EUNAVAILABLE", func(t *testing.T) {
		t.Parallel()

		v, err := goquery.NewView(`<html><body></body></html>`)
		require.NoError(t, err)

		_, err = v.Eval(context.Background(), "() => document.title")
		assert.Equal(t, provdir.EUNAVAILABLE, provdir.ErrorCode(err))
	})
}

func TestView_EvalOn(t *testing.T) {
	t.Parallel()

	t.Run("sibling panel detects an adjacent collapse", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<h4 id="hdr">Business</h4>
<div class="collapse show"><ul><li>Diploma in Accounting</li></ul></div>
</body>
</html>`

		v, err := goquery.NewView(html)
		require.NoError(t, err)
		ctx := context.Background()

		hdr, err := v.Find(ctx, "#hdr")
		require.NoError(t, err)

		out, err := v.EvalOn(ctx, hdr, provdir.ScriptSiblingPanel)
		require.NoError(t, err)
		assert.Equal(t, true, out)
	})

	t.Run("sibling items walks following lists", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<body>
<h4 id="hdr">Business</h4>
<ul>
	<li>Diploma in Accounting</li>
	<li>Certificate in Marketing</li>
</ul>
<h4>Technology</h4>
<ul><li>Diploma in Networking</li></ul>
</body>
</html>`

		v, err := goquery.NewView(html)
		require.NoError(t, err)
		ctx := context.Background()

		hdr, err := v.Find(ctx, "#hdr")
		require.NoError(t, err)

		out, err := v.EvalOn(ctx, hdr, provdir.ScriptSiblingItems)
		require.NoError(t, err)

		items, ok := out.([]any)
		require.True(t, ok)
		assert.Contains(t, items, "Diploma in Accounting")
		assert.Contains(t, items, "Certificate in Marketing")
	})
}
