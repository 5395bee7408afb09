// Package connectors provides document sources that feed the policy indexer.
// Each connector knows how to enumerate and watch a specific source type.
package connectors
