// Package pollwatch tracks a generation job by polling its status endpoint.
// It is the fallback delivery path when the push channel is unavailable:
// each poll response is translated into the same events the push channel
// produces and folded through the shared slot status store, so both paths
// converge on identical state.
package pollwatch
