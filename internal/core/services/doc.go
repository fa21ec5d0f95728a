// Package services implements the driving ports by orchestrating the
// driven ports. Services hold no infrastructure code themselves; they
// compose the chunker, embedding service, vector index and stores into
// the ingestion, retrieval and generation pipelines.
package services
