//go:build facetdebug

package render

// debugAssertions turns malformed mesh data into panics.
const debugAssertions = true
