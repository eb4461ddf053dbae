// Package webstore implements a TTL-bucketed key-value cache on top of flat,
// string-keyed, quota-limited backends (SQLite, Redis, in-process caches).
// Every operation is synchronous; there is no background sweeper. Expired
// entries are evicted lazily on read or by an explicit flush.
//
// Components:
//   - Backend: string store with ordered enumeration and a quota signal.
//   - Codec: (de)serializes values <-> stored strings. JSON by default.
//   - Store: one backend plus capability probe, expiry markers and bucket sweeps.
//   - Storage: facade routing to a durable store, a session store and a cookie jar.
//
// Keys:
//
//	<bucket>~$~<key>           - value
//	<bucket>~$~<key>-exptime   - expiry (whole minutes since the Unix epoch)
//
// Buckets partition one backend. Persisted survives Clear; Others is reclaimed
// when a write hits the backend quota and its TTLs are capped at MaxTTL.
//
// Usage:
//
//	st, _ := webstore.New(ctx, webstore.Options{Local: db, Session: memory.New(memory.Config{})})
//	st.Set(ctx, "profile", p, webstore.LocalStorage, webstore.WithTTL(time.Hour))
//	v, ok := st.Get(ctx, "profile", webstore.LocalStorage)
package webstore
