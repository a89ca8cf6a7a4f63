// Package backend holds the HTTP controllers of the administration area:
// the preview switch used by the frontend preview toolbar, the picker entry
// point, login and logout, the dashboard and the fragment endpoint.
//
// Controllers receive their collaborators through constructors and are
// mounted with Mount.
package backend
