package service

import (
	"fmt"
	"strings"

	"github.com/yndnr/kvplay-go/internal/core/domain"
	"github.com/yndnr/kvplay-go/internal/protocol/resp"
)

// INFO sections in output order.
var infoSections = []struct {
	name  string
	title string
	write func(b *strings.Builder, c *call)
}{
	{name: "server", title: "Server", write: writeServerInfo},
	{name: "keyspace", title: "Keyspace", write: writeKeyspaceInfo},
	{name: "playground", title: "Playground", write: writePlaygroundInfo},
}

// INFO [section]
//
// Without a section, or with "all", "default" or "everything", every section
// is printed. An unknown section yields empty text.
func handleInfo(c *call) (resp.Reply, *domain.Store, error) {
	want := "all"
	if len(c.args) > 0 {
		want = strings.ToLower(c.args[0])
	}
	all := want == "all" || want == "default" || want == "everything"

	var b strings.Builder
	for _, s := range infoSections {
		if !all && s.name != want {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("# " + s.title + "\n")
		s.write(&b, c)
	}
	return resp.Verbatim(b.String()), nil, nil
}

func writeServerInfo(b *strings.Builder, c *call) {
	fmt.Fprintf(b, "kvplay_version:%s\n", c.info.Version)
	fmt.Fprintf(b, "kvplay_mode:%s\n", c.info.Mode)
	fmt.Fprintf(b, "tcp_port:%d\n", c.info.Port)
}

func writeKeyspaceInfo(b *strings.Builder, c *call) {
	live := c.store.LiveCount(c.now)
	if live == 0 {
		return
	}
	fmt.Fprintf(b, "db0:keys=%d,expires=%d\n", live, c.store.VolatileCount(c.now))
}

func writePlaygroundInfo(b *strings.Builder, c *call) {
	var counts [domain.KindHash + 1]int
	stale := 0
	c.store.Range(func(_ string, e domain.Entry) bool {
		if e.IsExpiredAt(c.now) {
			stale++
			return true
		}
		counts[e.Kind()]++
		return true
	})
	for k := domain.KindString; k <= domain.KindHash; k++ {
		fmt.Fprintf(b, "%s_keys:%d\n", k, counts[k])
	}
	fmt.Fprintf(b, "pending_expired_keys:%d\n", stale)
	fmt.Fprintf(b, "store_digest:%016x\n", c.store.Digest())
}

// FLUSHALL
func handleFlushAll(c *call) (resp.Reply, *domain.Store, error) {
	if c.store.Len() == 0 {
		return resp.OK(), nil, nil
	}
	return resp.OK(), c.store.Clear(), nil
}

// PING [message]
func handlePing(c *call) (resp.Reply, *domain.Store, error) {
	if len(c.args) == 1 {
		return resp.Bulk(c.args[0]), nil, nil
	}
	return resp.Status("PONG"), nil, nil
}
