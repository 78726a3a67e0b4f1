// Package services implements the driving port interfaces.
// Services contain the core business logic: the ingest pipeline, the
// retriever over the two vector collections, the tool registry and the
// assistant orchestrator that drives the model's tool loop.
package services
