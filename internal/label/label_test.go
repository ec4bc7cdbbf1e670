package label

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parceldirect/consign/internal/model"
)

func testConsignment() *model.Consignment {
	return &model.Consignment{
		ID:                1,
		AccountNo:         "A12345",
		Name:              "Anto",
		AddressLine1:      "Main Street",
		AddressLine2:      "Coosan",
		AddressLine3:      "Athlone",
		AddressLine4:      "Westmeath",
		Weight:            12,
		ConsignmentNumber: 1,
		DeliveryDepot:     31,
	}
}

func TestRenderer_Path(t *testing.T) {
	r := NewRenderer("labels")
	assert.Equal(t, filepath.Join("labels", "label_42.pdf"), r.Path(42))
}

func TestRenderer_Render(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(filepath.Join(dir, "labels"))

	path, err := r.Render(testConsignment())
	require.NoError(t, err)
	assert.Equal(t, r.Path(1), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderer_Render_NoAddressLine2(t *testing.T) {
	r := NewRenderer(t.TempDir())

	c := testConsignment()
	c.AddressLine2 = ""

	path, err := r.Render(c)
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestRenderer_Render_Overwrites(t *testing.T) {
	r := NewRenderer(t.TempDir())

	first, err := r.Render(testConsignment())
	require.NoError(t, err)

	second, err := r.Render(testConsignment())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAddressLines(t *testing.T) {
	c := testConsignment()
	assert.Equal(t,
		[]string{"Anto", "Main Street", "Coosan", "Athlone", "Westmeath"},
		addressLines(c))

	c.AddressLine2 = ""
	assert.Equal(t,
		[]string{"Anto", "Main Street", "Athlone", "Westmeath"},
		addressLines(c))
}
