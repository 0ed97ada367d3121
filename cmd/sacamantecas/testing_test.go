package main_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/sacamantecas"
	"github.com/fwojciec/sacamantecas/goquery"
	"github.com/fwojciec/sacamantecas/yaml"
	"github.com/stretchr/testify/require"
)

// testProfiles declares one profile per strategy, both matching
// example.org hosts.
const testProfiles = `
fichas:
  uri: 'fichas\.example\.org'
  m_tag: dl
  m_attr: class
  m_value: ficha
tablas:
  uri: 'tablas\.example\.org'
  k_class: '^etiqueta$'
  v_class: '^valor$'
`

const fichaHTML = `<html><body>
<dl class="ficha"><dt>Autor:</dt><dd>Pérez Galdós, Benito</dd></dl>
<dl class="ficha"><dt>Título:</dt><dd>Marianela</dd></dl>
</body></html>`

func testRegistry(t *testing.T) *sacamantecas.Registry {
	t.Helper()

	reg, err := yaml.LoadRegistry(strings.NewReader(testProfiles))
	require.NoError(t, err)
	return reg
}

func testDriver(t *testing.T) *sacamantecas.Driver {
	t.Helper()

	return sacamantecas.NewDriver(sacamantecas.NewResolver(testRegistry(t)), goquery.NewExtractor())
}
