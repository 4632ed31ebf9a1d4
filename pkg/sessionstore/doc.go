// Package sessionstore is the authoritative registry of active
// sessions, indexed by token and by owning user.
//
// Two backends implement the Store interface. MemoryStore keeps both
// indices under one mutex and sweeps idle sessions on a background
// cadence; it gives the strongest ordering guarantees and is the default
// for single-process deployments. RedisStore relies on native per-key
// expiry and a per-user Redis set, suitable when sessions must survive a
// process restart or be shared across replicas.
//
// Rotation uses Replace, which retires the old token and inserts the new
// session atomically: there is no observable window where both or
// neither token resolve.
package sessionstore
