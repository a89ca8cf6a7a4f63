// Package element contains the built-in fragments: the accordion, text and
// headline content elements, the html frontend module, the preview_links
// backend module and the versions dashboard widget.
package element
