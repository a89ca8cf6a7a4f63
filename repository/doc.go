// Package repository reads the Contao tables the backend needs: front end
// members for the preview switch, back end users for login and the version
// log for the dashboard.
package repository
