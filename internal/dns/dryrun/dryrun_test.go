package dryrun

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	logrtesting "github.com/go-logr/logr/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuriy-kovalchuk/zone-importer/internal/dns"
)

const rewritten = "$ORIGIN example.com\n" +
	"$TTL 300\n" +
	"example.com.\t300\tIN\tSOA\tdns1.stabletransit.com. it.example.com. 1700000000 21600 3600 1814400 300\n" +
	"www 300 IN A 192.0.2.10\n" +
	"mail.example.com. 300 IN MX 10 mx.example.com.\n"

func newProvider(t *testing.T) (*Provider, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "out")
	p, err := New(logrtesting.NewTestLogger(t), map[string]string{"output_dir": dir})
	require.NoError(t, err)
	return p, dir
}

func TestNew_CreatesOutputDir(t *testing.T) {
	_, dir := newProvider(t)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNew_MissingOutputDir(t *testing.T) {
	_, err := New(logrtesting.NewTestLogger(t), map[string]string{})
	require.Error(t, err)
}

func TestImportDomain(t *testing.T) {
	p, dir := newProvider(t)
	p.SetTimeout(60 * time.Second)

	d, err := p.ImportDomain(context.Background(), rewritten)
	require.NoError(t, err)

	assert.Equal(t, "example.com", d.Name)
	assert.Equal(t, uint32(1700000000), d.Serial)
	assert.Equal(t, 3, d.Records)

	data, err := os.ReadFile(filepath.Join(dir, "example.com.zone"))
	require.NoError(t, err)
	assert.Equal(t, rewritten, string(data))

	_, err = os.Stat(filepath.Join(dir, "example.com.zone.tmp"))
	assert.True(t, os.IsNotExist(err), "temporary file must not be left behind")
}

func TestImportDomain_NoSOA(t *testing.T) {
	p, dir := newProvider(t)

	_, err := p.ImportDomain(context.Background(), "$ORIGIN example.com\nwww 300 IN A 192.0.2.10\n")
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestImportDomain_Unparsable(t *testing.T) {
	p, _ := newProvider(t)

	_, err := p.ImportDomain(context.Background(), "$ORIGIN example.com\nwww 300 IN A not-an-ip\n")
	require.Error(t, err)
}

func TestImportDomain_CanceledContext(t *testing.T) {
	p, _ := newProvider(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.ImportDomain(ctx, rewritten)
	require.ErrorIs(t, err, context.Canceled)
}

func TestReadOnly(t *testing.T) {
	p, _ := newProvider(t)
	assert.True(t, dns.IsReadOnly(p))
}

func TestImportDomain_DeadlineExceeded(t *testing.T) {
	p, dir := newProvider(t)
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := p.ImportDomain(ctx, rewritten)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing saved after the deadline")
}

func TestSetTimeout_BoundsImport(t *testing.T) {
	p, _ := newProvider(t)

	ctx, cancel := p.withTimeout(context.Background())
	_, ok := ctx.Deadline()
	cancel()
	assert.False(t, ok, "no deadline without a timeout")

	p.SetTimeout(30 * time.Second)
	ctx, cancel = p.withTimeout(context.Background())
	defer cancel()
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(30*time.Second), deadline, 5*time.Second)
}
