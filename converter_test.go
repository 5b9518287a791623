package pdfreflow_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/webassembly"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristip73/pdfreflow"
)

// setupPDFium initialises a pdfium instance for testing.
func setupPDFium(t *testing.T) pdfium.Pdfium {
	t.Helper()

	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
	})

	instance, err := pool.GetInstance(time.Second * 30)
	require.NoError(t, err)

	return instance
}

func TestConverter_ConvertFile(t *testing.T) {
	instance := setupPDFium(t)
	converter := pdfreflow.NewConverter(instance)

	testPDFPath := filepath.Join("testdata", "simple.pdf")
	if _, err := os.Stat(testPDFPath); os.IsNotExist(err) {
		t.Skip("Test PDF not found, skipping test")
		return
	}

	markdown, err := converter.ConvertFile(testPDFPath)
	require.NoError(t, err)
	assert.NotEmpty(t, markdown)
	assert.True(t, strings.HasPrefix(markdown, "# simple"))
	assert.Contains(t, markdown, "*Converted from simple.pdf*")

	t.Logf("Generated markdown:\n%s", markdown)
}

func TestConverter_ConvertBytes(t *testing.T) {
	instance := setupPDFium(t)
	converter := pdfreflow.NewConverter(instance)

	testPDFPath := filepath.Join("testdata", "simple.pdf")
	if _, err := os.Stat(testPDFPath); os.IsNotExist(err) {
		t.Skip("Test PDF not found, skipping test")
		return
	}

	pdfBytes, err := os.ReadFile(testPDFPath)
	require.NoError(t, err)

	markdown, err := converter.ConvertBytes(pdfBytes, "simple.pdf")
	require.NoError(t, err)
	assert.NotEmpty(t, markdown)
}

func TestConverter_CorruptDocument(t *testing.T) {
	instance := setupPDFium(t)
	converter := pdfreflow.NewConverter(instance)

	_, err := converter.ConvertBytes([]byte("this is not a pdf"), "broken.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, pdfreflow.ErrExtractionFailed)

	var convErr *pdfreflow.ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, pdfreflow.StageExtract, convErr.Stage)
}

func TestConverter_GetDocumentInfo(t *testing.T) {
	instance := setupPDFium(t)
	converter := pdfreflow.NewConverter(instance)

	testPDFPath := filepath.Join("testdata", "simple.pdf")
	if _, err := os.Stat(testPDFPath); os.IsNotExist(err) {
		t.Skip("Test PDF not found, skipping test")
		return
	}

	info, err := converter.GetDocumentInfo(testPDFPath)
	require.NoError(t, err)
	assert.Greater(t, info.PageCount, 0)
}

func TestConverter_ConvertFileWithMetrics(t *testing.T) {
	instance := setupPDFium(t)
	converter := pdfreflow.NewConverter(instance)

	testPDFPath := filepath.Join("testdata", "simple.pdf")
	if _, err := os.Stat(testPDFPath); os.IsNotExist(err) {
		t.Skip("Test PDF not found, skipping test")
		return
	}

	markdown, metrics, err := converter.ConvertFileWithMetrics(testPDFPath)
	require.NoError(t, err)
	assert.NotEmpty(t, markdown)
	assert.Greater(t, metrics.Statistics.TotalPages, 0)
	assert.Len(t, metrics.PageExtractions, metrics.Statistics.TotalPages)
}
