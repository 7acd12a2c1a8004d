package events

import "github.com/sims-ims/sims-client/internal/logging"

type TabTracer struct{}

type CacheTracer struct{}

var (
	Tab   = TabTracer{}
	Cache = CacheTracer{}
)

func (TabTracer) Open(tab string, inserted bool) {
	logging.Trace("tab.open", map[string]interface{}{"tab": tab, "inserted": inserted})
}

func (TabTracer) Navigate(tab string, depth int) {
	logging.Trace("tab.navigate", map[string]interface{}{"tab": tab, "depth": depth})
}

func (TabTracer) Close(tab string, removed int) {
	logging.Trace("tab.close", map[string]interface{}{"tab": tab, "removed": removed})
}

func (CacheTracer) Refresh(kind, shelfID string) {
	logging.Trace("cache.refresh", map[string]interface{}{"kind": kind, "shelf": shelfID})
}

func (CacheTracer) Updated(kind, shelfID string, count int) {
	logging.Trace("cache.updated", map[string]interface{}{"kind": kind, "shelf": shelfID, "count": count})
}

func (CacheTracer) Failed(kind, shelfID string, err error) {
	logging.Trace("cache.error", map[string]interface{}{"kind": kind, "shelf": shelfID, "error": errorText(err)})
}
