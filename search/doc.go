// Package search indexes crawled pages. Indexers registered under the
// contao.search_indexer tag are collected by IndexerPass into the
// DelegatingIndexer; the bundled DatabaseIndexer stores page text in
// tl_search.
package search
