package credentials

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/yuque-export/internal/core/domain"
)

const cookieFile = `# Netscape HTTP Cookie File
# This is a generated file! Do not edit.

.yuque.com	TRUE	/	TRUE	0	_yuque_session	session-value
#HttpOnly_www.yuque.com	FALSE	/	TRUE	4102444800	ctoken	token-value
.yuque.com	TRUE	/	FALSE	946684800	stale	old
example.com	FALSE	/	FALSE	0	other	x
broken line
`

func writeCookieFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cookies.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func names(set domain.CredentialSet) []string {
	var out []string
	for _, c := range set.Cookies {
		out = append(out, c.Name)
	}
	return out
}

func TestStaticSource(t *testing.T) {
	set, err := NewStaticSource("_yuque_session=abc; ctoken=xyz").Credentials(context.Background(), "www.yuque.com")

	require.NoError(t, err)
	assert.Equal(t, "_yuque_session=abc; ctoken=xyz", set.CookieHeader())
}

func TestStaticSource_Empty(t *testing.T) {
	_, err := NewStaticSource("  ").Credentials(context.Background(), "www.yuque.com")

	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestFileSource_MatchesDomainAndSkipsExpired(t *testing.T) {
	source := NewFileSource(writeCookieFile(t, cookieFile))
	source.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		host     string
		expected []string
	}{
		{"www.yuque.com", []string{"_yuque_session", "ctoken"}},
		{"yuque.com", []string{"_yuque_session"}},
		{"WWW.Yuque.com", []string{"_yuque_session", "ctoken"}},
		{"example.com", []string{"other"}},
		{"sub.example.com", nil},
	}

	for _, tc := range tests {
		t.Run(tc.host, func(t *testing.T) {
			set, err := source.Credentials(context.Background(), tc.host)
			if tc.expected == nil {
				assert.ErrorIs(t, err, domain.ErrAuthRequired)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, names(set))
		})
	}
}

func TestFileSource_ReloadsWhenChanged(t *testing.T) {
	path := writeCookieFile(t, ".yuque.com\tTRUE\t/\tTRUE\t0\ta\t1\n")
	source := NewFileSource(path)

	set, err := source.Credentials(context.Background(), "www.yuque.com")
	require.NoError(t, err)
	assert.Equal(t, "a=1", set.CookieHeader())

	require.NoError(t, os.WriteFile(path, []byte(".yuque.com\tTRUE\t/\tTRUE\t0\ta\t2\n"), 0600))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	set, err = source.Credentials(context.Background(), "www.yuque.com")
	require.NoError(t, err)
	assert.Equal(t, "a=2", set.CookieHeader())
}

func TestFileSource_MissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.txt")).Credentials(context.Background(), "www.yuque.com")

	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestParseCookieFile_SkipsMalformed(t *testing.T) {
	cookies, err := parseCookieFile(strings.NewReader("only\tthree\tfields\n\n#comment\nd\tFALSE\t/\tFALSE\tnot-a-number\tn\tv\n"))

	require.NoError(t, err)
	require.Len(t, cookies, 1)
	assert.Equal(t, "n", cookies[0].Name)
	assert.True(t, cookies[0].Expires.IsZero())
}

func TestDomainMatches(t *testing.T) {
	tests := []struct {
		host, domain string
		sub          bool
		expected     bool
	}{
		{"www.yuque.com", "www.yuque.com", false, true},
		{"www.yuque.com", "yuque.com", false, false},
		{"www.yuque.com", "yuque.com", true, true},
		{"www.yuque.com", ".yuque.com", false, true},
		{"evilyuque.com", ".yuque.com", false, false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.expected, domainMatches(tc.host, tc.domain, tc.sub), "%s vs %s", tc.host, tc.domain)
	}
}

func TestChain(t *testing.T) {
	path := writeCookieFile(t, ".yuque.com\tTRUE\t/\tTRUE\t0\tfrom_file\t1\n")

	tests := []struct {
		name     string
		auth     domain.AuthSettings
		expected string
		wantErr  bool
	}{
		{"cookie wins", domain.AuthSettings{Cookie: "from_header=1", CookieFile: path}, "from_header=1", false},
		{"file when no cookie", domain.AuthSettings{CookieFile: path}, "from_file=1", false},
		{"nothing configured", domain.AuthSettings{}, "", true},
		{"file missing", domain.AuthSettings{CookieFile: path + ".missing"}, "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			set, err := FromSettings(tc.auth).Credentials(context.Background(), "www.yuque.com")
			if tc.wantErr {
				assert.ErrorIs(t, err, domain.ErrAuthRequired)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, set.CookieHeader())
		})
	}
}
