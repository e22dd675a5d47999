// Package search builds the per-page Bloom filters behind client-side search.
//
// A page's indexed text is the content of its #main-content element. The
// text is segmented, lower-cased and deduplicated, then inserted into a
// filter sized for the token count and the configured false-positive rate:
//
//	m = ceil(-n ln p / (ln 2)^2)   bits, stored in ceil(m/8) bytes
//	k = ceil((m/n) ln 2)           hash positions per token
//
// Positions come from one 64-bit fxhash per token split into 32-bit halves
// (low, high): pos_i = (low + i*high) mod (8*bytes). The browser script
// repeats the same arithmetic, so the hash, the segmentation rules and the
// byte layout are a wire format.
package search
