package scraper

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productURL = "https://inkafarma.pe/producto/magnesol-polvo-efervescente-sabor-naranja/009570"

const fullPage = `<!DOCTYPE html>
<html>
<head>
<meta property="og:title" content="Inkafarma | Magnesol Polvo - Inkafarma">
</head>
<body>
<h1 class="product-detail-information__name">
  Magnesol Polvo Efervescente
  Sabor Naranja
</h1>
<div class="row">
  <div class="col-6 label-col"><span class="label">Precio regular</span></div>
  <div class="price-amount text-strike">S/ 28.90</div>
</div>
<div class="row">
  <div class="col-6"><span>  Precio Promocional  </span></div>
  <div class="price-amount">S/ 19.90</div>
</div>
<div class="row">
  <div class="col-6"><span>Exclusivo Oh! y Oh! Pay</span></div>
  <div class="col-6">
    <div class="price-amount special">
      S/ 15.50
      <img class="icon-ohpay" src="ohpay.png">
      <span class="old">S/ 99.99</span>
    </div>
  </div>
</div>
</body>
</html>`

func TestParse_FullPage(t *testing.T) {
	snap, err := NewInkafarma().Parse(fullPage, productURL)
	require.NoError(t, err)

	assert.Equal(t, "Magnesol Polvo Efervescente Sabor Naranja", snap.Name)
	assert.Equal(t, productURL, snap.URL)

	require.NotNil(t, snap.RegularPrice)
	assert.Equal(t, "S/ 28.90", snap.RegularPrice.Text)
	assert.True(t, snap.RegularPrice.Value.Decimal.Equal(decimal.RequireFromString("28.90")))
	assert.True(t, snap.IsRegularStriked)

	require.NotNil(t, snap.PromoPrice)
	assert.Equal(t, "S/ 19.90", snap.PromoPrice.Text)
	assert.True(t, snap.PromoPrice.Value.Decimal.Equal(decimal.RequireFromString("19.90")))

	require.NotNil(t, snap.SpecialPrice)
	assert.Equal(t, "S/ 15.50", snap.SpecialPrice.Text, "child elements must not leak into the special price")
	assert.True(t, snap.SpecialPrice.Value.Decimal.Equal(decimal.RequireFromString("15.50")))
}

func TestParse_RegularOnly(t *testing.T) {
	page := `<html><body>
<div class="row">
  <div class="col-12"><span>Precio Regular</span></div>
  <div class="price-amount">S/ 1,234.50</div>
</div>
</body></html>`

	snap, err := NewInkafarma().Parse(page, productURL)
	require.NoError(t, err)

	require.NotNil(t, snap.RegularPrice)
	assert.False(t, snap.IsRegularStriked)
	assert.True(t, snap.RegularPrice.Value.Decimal.Equal(decimal.RequireFromString("1234.50")))
	assert.Nil(t, snap.PromoPrice)
	assert.Nil(t, snap.SpecialPrice)
	assert.Equal(t, "Unknown Product", snap.Name)
}

func TestParse_StruckPromoIgnored(t *testing.T) {
	page := `<html><body>
<div class="row">
  <div class="col-6"><span>Precio regular</span></div>
  <div class="price-amount text-strike">S/ 28.90</div>
  <div class="col-6"><span>Precio promocional</span></div>
  <div class="price-amount text-strike">S/ 19.90</div>
</div>
</body></html>`

	snap, err := NewInkafarma().Parse(page, productURL)
	require.NoError(t, err)
	assert.NotNil(t, snap.RegularPrice)
	assert.Nil(t, snap.PromoPrice)
}

func TestParse_NonBreakingSpace(t *testing.T) {
	page := `<html><body>
<div class="row">
  <div class="col-6"><span>Precio regular</span></div>
  <div class="price-amount text-strike">S/&nbsp;28.90</div>
  <div class="col-6"><span>Precio promocional</span></div>
  <div class="price-amount">S/&nbsp;19.90</div>
</div>
</body></html>`

	snap, err := NewInkafarma().Parse(page, productURL)
	require.NoError(t, err)

	require.NotNil(t, snap.PromoPrice)
	assert.Equal(t, "S/\u00a019.90", snap.PromoPrice.Text)
	require.True(t, snap.PromoPrice.Value.Valid)
	assert.True(t, snap.PromoPrice.Value.Decimal.Equal(decimal.RequireFromString("19.90")))
	require.NotNil(t, snap.RegularPrice)
	assert.True(t, snap.RegularPrice.Value.Valid)
}

func TestParse_MissingStructure(t *testing.T) {
	cases := map[string]string{
		"no labels": `<html><body><div class="price-amount">S/ 10.00</div></body></html>`,
		"label without column": `<html><body>
<div class="row"><span>Precio regular</span><div class="price-amount">S/ 10.00</div></div>
</body></html>`,
		"column without sibling": `<html><body>
<div class="row"><div class="col-6"><span>Precio regular</span></div></div>
</body></html>`,
		"sibling without price class": `<html><body>
<div class="row"><div class="col-6"><span>Precio regular</span></div><div class="amount">S/ 10.00</div></div>
</body></html>`,
		"empty document": ``,
	}
	for name, page := range cases {
		t.Run(name, func(t *testing.T) {
			snap, err := NewInkafarma().Parse(page, productURL)
			require.NoError(t, err)
			assert.Nil(t, snap.RegularPrice)
			assert.Nil(t, snap.PromoPrice)
			assert.Nil(t, snap.SpecialPrice)
			assert.False(t, snap.IsRegularStriked)
		})
	}
}

func TestParse_UnparseablePrice(t *testing.T) {
	page := `<html><body>
<div class="row"><div class="col-6"><span>Precio regular</span></div><div class="price-amount">Agotado</div></div>
</body></html>`

	snap, err := NewInkafarma().Parse(page, productURL)
	require.NoError(t, err)
	require.NotNil(t, snap.RegularPrice)
	assert.Equal(t, "Agotado", snap.RegularPrice.Text)
	assert.False(t, snap.RegularPrice.Value.Valid)
}

func TestParse_SpecialWithoutNestedAmount(t *testing.T) {
	page := `<html><body>
<div class="row">
  <div class="col-6"><span>Exclusivo Oh! y Oh! Pay</span></div>
  <div class="col-6"><span>S/ 12.00</span></div>
</div>
</body></html>`

	snap, err := NewInkafarma().Parse(page, productURL)
	require.NoError(t, err)
	assert.Nil(t, snap.SpecialPrice)
}

func TestParse_SpecialSiblingIsAmount(t *testing.T) {
	page := `<html><body>
<div class="row">
  <div class="col-6"><span>Exclusivo Oh! y Oh! Pay</span></div>
  <div class="price-amount">S/ 12.00<i class="icon"></i></div>
</div>
</body></html>`

	snap, err := NewInkafarma().Parse(page, productURL)
	require.NoError(t, err)
	require.NotNil(t, snap.SpecialPrice)
	assert.Equal(t, "S/ 12.00", snap.SpecialPrice.Text)
}

func TestProductName(t *testing.T) {
	cases := []struct {
		name string
		head string
		body string
		want string
	}{
		{
			name: "og title with tagline",
			head: `<meta property="og:title" content="Inkafarma: Más salud al mejor precio | Desodorante Secret Powder">`,
			want: "Desodorante Secret Powder",
		},
		{
			name: "og title with trailing store",
			head: `<meta property="og:title" content="Inkafarma | Magnesol Naranja - Inkafarma">`,
			want: "Magnesol Naranja",
		},
		{
			name: "title selector wins over og title",
			head: `<meta property="og:title" content="Inkafarma | Outro">`,
			body: `<h1 class="product-detail-information__name">Magnesol</h1>`,
			want: "Magnesol",
		},
		{
			name: "first h1",
			body: `<h1>Primeiro</h1><h1>Segundo</h1>`,
			want: "Primeiro",
		},
		{
			name: "empty og title falls through",
			head: `<meta property="og:title" content="Inkafarma | ">`,
			body: `<h1>Do H1</h1>`,
			want: "Do H1",
		},
		{
			name: "nothing",
			want: "Unknown Product",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			page := "<html><head>" + c.head + "</head><body>" + c.body + "</body></html>"
			snap, err := NewInkafarma().Parse(page, productURL)
			require.NoError(t, err)
			assert.Equal(t, c.want, snap.Name)
		})
	}
}

func TestParse_GenericKeepsOgTitle(t *testing.T) {
	page := `<html><head><meta property="og:title" content="Inkafarma | Magnesol"></head></html>`
	snap, err := NewGeneric().Parse(page, "https://example.com/p")
	require.NoError(t, err)
	assert.Equal(t, "Inkafarma | Magnesol", snap.Name)
}
