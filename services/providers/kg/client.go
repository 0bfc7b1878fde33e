package kg

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"lyrics-fetch-go/cache"
	"lyrics-fetch-go/config"
	"lyrics-fetch-go/lyricserr"
	"lyrics-fetch-go/logcolors"
	"lyrics-fetch-go/version"
)

const signingKey = "LnT6xpN3khm36zse0QzvmgTZ3waWdRSA"

var (
	sharedCache   = cache.New()
	legacyDomains = []string{"mobiles.kugou.com", "msearchcdn.kugou.com", "mobilecdnbj.kugou.com", "msearch.kugou.com"}

	httpClient       = &http.Client{Timeout: time.Duration(config.Get().Providers.KGTimeoutSeconds) * time.Second}
	legacyHTTPClient = &http.Client{Timeout: time.Duration(config.Get().Providers.KGLegacyTimeoutSeconds) * time.Second}

	dfidOnce sync.Once
	dfid     string
)

// DumpCache returns a snapshot of the dfid bootstrap cache for debug inspection.
func DumpCache() map[any]any { return sharedCache.Dump() }

// ClearCache empties the dfid bootstrap cache.
func ClearCache() { sharedCache.Clear() }

type dfidCacheKey struct {
	tag     string
	version string
}

// ensureDfid bootstraps the device fingerprint used by non-Lyric module
// requests, memoizing it in the shared TTL cache for 30 minutes so restarts
// within that window skip the registration round trip. Falling back to "-"
// on any failure mirrors the reference client: a missing dfid degrades some
// requests rather than blocking them.
func ensureDfid() string {
	dfidOnce.Do(func() {
		key := dfidCacheKey{"KG_dfid", version.Version}
		if cached, ok := sharedCache.Get(key, nil).(string); ok && cached != "" {
			dfid = cached
			return
		}

		mid := md5Hex(fmt.Sprintf("%d", time.Now().UnixMilli()))
		params := url.Values{"appid": {"1014"}, "platid": {"4"}, "mid": {mid}}
		sig := md5Hex("1014" + sortedJoin(params) + "1014")
		params.Set("signature", sig)

		req, err := http.NewRequest(http.MethodPost,
			"https://userservice.kugou.com/risk/v1/r_register_dev?"+params.Encode(),
			strings.NewReader(`eyJ1dWlkIjoiIn0=`))
		if err != nil {
			dfid = "-"
			return
		}
		resp, err := httpClient.Do(req)
		if err != nil {
			dfid = "-"
			return
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)

		var out dfidResponse
		if resp.StatusCode == http.StatusOK && json.Unmarshal(body, &out) == nil && out.Data.Dfid != "" {
			dfid = out.Data.Dfid
			sharedCache.Set(key, dfid, config.Get().Providers.KGDfidCacheTTLSeconds)
			return
		}
		dfid = "-"
	})
	return dfid
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// sortedJoin concatenates url.Values' single values, sorted by key, with no
// separator, matching the Python reference's "".join(sorted(values)).
func sortedJoin(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	vals := make([]string, 0, len(keys))
	for _, k := range keys {
		vals = append(vals, params.Get(k))
	}
	sort.Strings(vals)
	return strings.Join(vals, "")
}

// signedParamsString builds the "k=v" concatenation the signature is
// computed over, in sorted-key order.
func signedParamsString(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params.Get(k))
	}
	return b.String()
}

// isLegacyHost reports whether rawURL targets one of the legacy mobile
// hosts, which get a much shorter timeout than the primary API hosts.
func isLegacyHost(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	for _, domain := range legacyDomains {
		if u.Hostname() == domain {
			return true
		}
	}
	return false
}

// request issues a signed call against one of Kugou's search/lyrics APIs,
// shared by both the primary hosts and the legacy mobile-host fallback.
// module selects which of the two distinct default-parameter/signing
// schemes applies: "Lyric" uses a minimal appid/clientver prefix, anything
// else uses the fuller default-session parameter set.
func request(method, rawURL string, params url.Values, module string, extraHeaders map[string]string) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}

	if module == "Lyric" {
		withDefaults := url.Values{"appid": {"3116"}, "clientver": {"11070"}}
		for k, v := range params {
			withDefaults[k] = v
		}
		params = withDefaults
	} else {
		withDefaults := url.Values{
			"userid":       {"0"},
			"appid":        {"3116"},
			"token":        {""},
			"clienttime":   {strconv.FormatInt(time.Now().Unix(), 10)},
			"iscorrection": {"1"},
			"uuid":         {"-"},
			"mid":          {md5Hex(fmt.Sprintf("%d", time.Now().UnixMilli()))},
			"dfid":         {"-"},
			"clientver":    {"11070"},
			"platform":     {"AndroidFilter"},
		}
		for k, v := range params {
			withDefaults[k] = v
		}
		params = withDefaults
	}

	sig := md5Hex(signingKey + signedParamsString(params) + signingKey)
	params.Set("signature", sig)

	req, err := http.NewRequest(method, rawURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, lyricserr.NewRequestError("kg request build failed", err)
	}
	req.Header.Set("User-Agent", fmt.Sprintf("Android14-1070-11070-201-0-%s-wifi", module))
	req.Header.Set("Connection", "Keep-Alive")
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	req.Header.Set("KG-Rec", "1")
	req.Header.Set("KG-RC", "1")
	req.Header.Set("KG-CLIENTTIMEMS", strconv.FormatInt(time.Now().UnixMilli(), 10))
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	log.Debugf("%s requesting %s", logcolors.LogSearch, rawURL)

	client := httpClient
	if isLegacyHost(rawURL) {
		client = legacyHTTPClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, lyricserr.NewRequestError("kg request failed", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, lyricserr.NewRequestError("kg response read failed", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, lyricserr.NewRequestError(fmt.Sprintf("kg API returned status %d", resp.StatusCode), nil)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && !env.ok() {
		return nil, lyricserr.NewRequestError(fmt.Sprintf("kg API error %d: %s", env.ErrorCode, env.ErrorMsg), nil)
	}
	return body, nil
}

func randomLegacyDomain() string {
	return legacyDomains[rand.Intn(len(legacyDomains))]
}

func unmarshalJSON(body []byte, v any) error {
	return json.Unmarshal(body, v)
}

// splitBy splits s on sep, dropping empty fields.
func splitBy(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// stringifyID renders a JSON-decoded id field (typically a float64) the way
// Python's str() would for an integer value.
func stringifyID(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatInt(int64(t), 10)
	default:
		return fmt.Sprintf("%v", t)
	}
}
