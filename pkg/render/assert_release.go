//go:build !facetdebug

package render

// debugAssertions turns malformed mesh data into panics. Release builds
// skip the offending triangle instead.
const debugAssertions = false
