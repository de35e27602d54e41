// Package services contains the core business logic of the pipeline,
// implementing the driving ports. Services orchestrate extraction,
// chunking, embedding, indexing and answering; they depend on driven
// ports only, never on concrete adapters.
package services
