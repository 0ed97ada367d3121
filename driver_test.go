package sacamantecas_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/sacamantecas"
	"github.com/fwojciec/sacamantecas/goquery"
	"github.com/fwojciec/sacamantecas/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriver_Process(t *testing.T) {
	t.Parallel()

	t.Run("resolves profile and extracts entries", func(t *testing.T) {
		t.Parallel()

		reg, err := sacamantecas.LoadRegistry([]sacamantecas.ProfileConfig{
			{Name: "bne", Fields: map[string]string{"uri": `bne\.es`, "m_tag": "dl", "m_attr": "class", "m_value": "docu_etiq"}},
			{Name: "ceres", Fields: map[string]string{"uri": `ceres\.mcu\.es`, "k_class": "tabla1TituloMB", "v_class": "celdaTablaR"}},
		})
		require.NoError(t, err)
		driver := sacamantecas.NewDriver(sacamantecas.NewResolver(reg), goquery.NewExtractor())

		result, err := driver.Process("http://ceres.mcu.es/pages/Main?idt=1",
			`<div class="tabla1TituloMB">Museo</div><p>…</p><div class="celdaTablaR">Museo de San Isidro</div>`)

		require.NoError(t, err)
		assert.Equal(t, "http://ceres.mcu.es/pages/Main?idt=1", result.URI)
		assert.Equal(t, "ceres", result.ProfileName())
		assert.Equal(t, []sacamantecas.MetadataEntry{{Key: "Museo", Value: "Museo de San Isidro"}}, result.Entries)

		result, err = driver.Process("http://catalogo.bne.es/record/1",
			`<dl class="docu_etiq"><dt>Autor</dt><dd>García Márquez, Gabriel</dd></dl>`)

		require.NoError(t, err)
		assert.Equal(t, "bne", result.ProfileName())
		assert.Equal(t, []sacamantecas.MetadataEntry{{Key: "Autor", Value: "García Márquez, Gabriel"}}, result.Entries)
	})

	t.Run("propagates ENOMATCH without extracting", func(t *testing.T) {
		t.Parallel()

		driver := sacamantecas.NewDriver(
			&mock.Resolver{ResolveFn: func(uri string) (*sacamantecas.Resolution, error) {
				return nil, sacamantecas.Errorf(sacamantecas.ENOMATCH, "no profile matches %q", uri)
			}},
			&mock.Extractor{ExtractFn: func(*sacamantecas.Profile, string) (*sacamantecas.ExtractionResult, error) {
				t.Fatal("extractor must not be called")
				return nil, nil
			}},
		)

		_, err := driver.Process("https://example.com", "<p></p>")

		assert.Equal(t, sacamantecas.ENOMATCH, sacamantecas.ErrorCode(err))
	})

	t.Run("reports ambiguous match as warning", func(t *testing.T) {
		t.Parallel()

		first := mustProfile(t, "first", "mcu")
		second := mustProfile(t, "second", "mcu")
		driver := sacamantecas.NewDriver(
			&mock.Resolver{ResolveFn: func(string) (*sacamantecas.Resolution, error) {
				return &sacamantecas.Resolution{Profile: first, Candidates: []*sacamantecas.Profile{first, second}}, nil
			}},
			&mock.Extractor{ExtractFn: func(p *sacamantecas.Profile, _ string) (*sacamantecas.ExtractionResult, error) {
				assert.Same(t, first, p)
				return &sacamantecas.ExtractionResult{
					Entries:  []sacamantecas.MetadataEntry{{Key: "k", Value: "v"}},
					Warnings: []sacamantecas.Warning{{Kind: sacamantecas.WarnUnpairedKeys, Message: "1 key"}},
				}, nil
			}},
		)

		result, err := driver.Process("http://ceres.mcu.es/", "<p></p>")

		require.NoError(t, err)
		require.Len(t, result.Warnings, 2)
		assert.Equal(t, sacamantecas.WarnAmbiguousProfile, result.Warnings[0].Kind)
		assert.Contains(t, result.Warnings[0].Message, "first, second")
		assert.Equal(t, sacamantecas.WarnUnpairedKeys, result.Warnings[1].Kind)
	})

	t.Run("wraps uncoded extractor errors as EMALFORMED", func(t *testing.T) {
		t.Parallel()

		p := mustProfile(t, "p", "x")
		driver := sacamantecas.NewDriver(
			&mock.Resolver{ResolveFn: func(string) (*sacamantecas.Resolution, error) {
				return &sacamantecas.Resolution{Profile: p, Candidates: []*sacamantecas.Profile{p}}, nil
			}},
			&mock.Extractor{ExtractFn: func(*sacamantecas.Profile, string) (*sacamantecas.ExtractionResult, error) {
				return nil, errors.New("tokenizer exploded")
			}},
		)

		_, err := driver.Process("x", "<p>")

		assert.Equal(t, sacamantecas.EMALFORMED, sacamantecas.ErrorCode(err))
		assert.Contains(t, sacamantecas.ErrorMessage(err), "tokenizer exploded")
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		reg, err := sacamantecas.NewRegistry(mustProfile(t, "p", "example"))
		require.NoError(t, err)
		driver := sacamantecas.NewDriver(sacamantecas.NewResolver(reg), goquery.NewExtractor())
		html := `<b class="auth">A</b><b class="titn">1</b><b class="auth">B</b><b class="titn">2</b>`

		first, err := driver.Process("https://example.com/1", html)
		require.NoError(t, err)
		second, err := driver.Process("https://example.com/1", html)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestDriver_ProcessReader(t *testing.T) {
	t.Parallel()

	reg, err := sacamantecas.NewRegistry(mustProfile(t, "p", "example"))
	require.NoError(t, err)
	driver := sacamantecas.NewDriver(sacamantecas.NewResolver(reg), goquery.NewExtractor())

	t.Run("reads document from reader", func(t *testing.T) {
		t.Parallel()

		result, err := driver.ProcessReader("https://example.com", strings.NewReader(`<i class="auth">A</i><i class="titn">1</i>`))

		require.NoError(t, err)
		assert.Equal(t, []sacamantecas.MetadataEntry{{Key: "A", Value: "1"}}, result.Entries)
	})

	t.Run("returns EMALFORMED when reading fails", func(t *testing.T) {
		t.Parallel()

		_, err := driver.ProcessReader("https://example.com", failingReader{})

		assert.Equal(t, sacamantecas.EMALFORMED, sacamantecas.ErrorCode(err))
	})

	t.Run("reads documents that are not UTF-8", func(t *testing.T) {
		t.Parallel()

		result, err := driver.ProcessReader("https://example.com", strings.NewReader("<i class=\"auth\">Ca\xf1a</i><i class=\"titn\">1</i>"))

		require.NoError(t, err)
		assert.Equal(t, []sacamantecas.MetadataEntry{{Key: "Caña", Value: "1"}}, result.Entries)
	})
}
