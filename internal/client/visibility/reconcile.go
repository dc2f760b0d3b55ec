// Package visibility manages the carrier's online/offline state and the
// location-sharing toggle, reconciling the locally persisted flags with the
// server's view on startup.
package visibility

// Reconcile merges the locally persisted online flag with the server's
// answer. An explicitly stored local flag wins both ways: a carrier who went
// online and then lost connectivity is not silently flipped offline by a
// stale server read, and a carrier who went offline stays offline even if
// the server still remembers them as online. Only when no local flag has
// ever been stored, a fresh install or a wiped database, does the server's
// answer decide; if the server is unreachable too the carrier starts
// offline.
func Reconcile(local *bool, server *bool) bool {
	if local != nil {
		return *local
	}
	if server != nil {
		return *server
	}
	return false
}
