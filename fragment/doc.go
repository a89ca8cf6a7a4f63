// Package fragment registers and renders pluggable content: content
// elements, frontend and backend modules, dashboard widgets.
//
// Fragments are declared as tagged service definitions. One RegisterPass
// per Reference collects them at build time into the Registry, keyed
// "<tag>.<type>", and fills the globals table that maps a globals key and
// category to the ordered fragment types. After the container is compiled
// the registry is frozen and bound to it; references with a proxy resolve
// their fragment on first render.
package fragment
