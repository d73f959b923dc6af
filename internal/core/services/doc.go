// Package services implements the core pipeline logic: retrieval ranking,
// prompt construction, provider fallback chains and the indexing/querying
// orchestrator.
package services
