package provdir_test

import (
	"testing"

	"github.com/mfurman/provdir"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := provdir.Errorf(provdir.ENOTFOUND, "provider %q not found", "test")

	assert.Equal(t, provdir.ENOTFOUND, provdir.ErrorCode(err))
	assert.Equal(t, "provider \"test\" not found", provdir.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, provdir.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, provdir.ErrorMessage(nil))
}

func TestProgramListing_Format(t *testing.T) {
	t.Parallel()

	t.Run("categories with and without items", func(t *testing.T) {
		t.Parallel()

		l := &provdir.ProgramListing{
			Categories: []provdir.Category{
				{Title: "Business", Items: []string{"Item1", "Item2"}},
				{Title: "Technology", Items: []string{"Item3", "Item4"}},
				{Title: "Languages"},
			},
		}

		assert.Equal(t, "Business (Item1, Item2); Technology (Item3, Item4); Languages", l.Format())
	})

	t.Run("flat fallback list", func(t *testing.T) {
		t.Parallel()

		l := &provdir.ProgramListing{Flat: []string{"Diploma in Accounting", "Project Management"}}

		assert.Equal(t, "Diploma in Accounting; Project Management", l.Format())
	})

	t.Run("empty listing degrades to N/A", func(t *testing.T) {
		t.Parallel()

		l := &provdir.ProgramListing{}

		assert.Equal(t, "N/A", l.Format())
	})
}

func TestProgramListing_AddCategory_deduplicates_titles(t *testing.T) {
	t.Parallel()

	l := &provdir.ProgramListing{}
	l.AddCategory(provdir.Category{Title: "Business", Items: []string{"A"}})
	l.AddCategory(provdir.Category{Title: "Business", Items: []string{"B"}})

	assert.Len(t, l.Categories, 1)
	assert.Equal(t, []string{"A"}, l.Categories[0].Items)
}

func TestProvider_Validate(t *testing.T) {
	t.Parallel()

	p := &provdir.Provider{}
	err := p.Validate()
	assert.Equal(t, provdir.EINVALID, provdir.ErrorCode(err))

	p.Name = "Acme Training Institute"
	assert.NoError(t, p.Validate())
}

func TestProvider_Normalize(t *testing.T) {
	t.Parallel()

	p := &provdir.Provider{Name: "Acme", Email: "info@acme.example"}
	p.Normalize()

	assert.Equal(t, "N/A", p.Area)
	assert.Equal(t, "N/A", p.Website)
	assert.Equal(t, "info@acme.example", p.Email)
	assert.Equal(t, "N/A", p.Programs)
}
