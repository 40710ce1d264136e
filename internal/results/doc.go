// Package results holds the per-submission lookup outcomes.
//
// A [ResultSet] maps each submitted peer identifier to its [PeerResult].
// Fetch workers write to it concurrently; each identifier owns one key, so
// the only overlap is a duplicated identifier, where the last completed
// lookup wins. [Totals] are always derived from the set's current contents,
// never accumulated while results arrive, which keeps them independent of
// completion order.
//
// Nothing here outlives a single form submission.
package results
