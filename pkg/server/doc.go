// Package server exposes flowchart documents over a JSON HTTP API.
//
// # Routes
//
// All document routes live under /api/v1/flowcharts/{doc}:
//
//	GET    /api/v1/flowcharts                         list documents
//	GET    /api/v1/flowcharts/{doc}                   document (interchange JSON)
//	PUT    /api/v1/flowcharts/{doc}                   replace document
//	DELETE /api/v1/flowcharts/{doc}                   delete document
//	PUT    /api/v1/flowcharts/{doc}/title             rename
//	POST   /api/v1/flowcharts/{doc}/clear             remove all nodes and edges
//	POST   /api/v1/flowcharts/{doc}/nodes             add node
//	PATCH  /api/v1/flowcharts/{doc}/nodes/{id}/label  edit label (auto-resizes)
//	PATCH  /api/v1/flowcharts/{doc}/nodes/{id}/size   manual resize
//	PATCH  /api/v1/flowcharts/{doc}/nodes/{id}/completion
//	PATCH  /api/v1/flowcharts/{doc}/nodes/{id}/position
//	PATCH  /api/v1/flowcharts/{doc}/nodes/{id}/parent
//	PATCH  /api/v1/flowcharts/{doc}/nodes/{id}/ext
//	DELETE /api/v1/flowcharts/{doc}/nodes/{id}
//	GET    /api/v1/flowcharts/{doc}/nodes/{id}/relations?kind=&label=
//	POST   /api/v1/flowcharts/{doc}/edges             connect
//	DELETE /api/v1/flowcharts/{doc}/edges/{id}
//	GET    /api/v1/flowcharts/{doc}/stats
//	GET    /api/v1/flowcharts/{doc}/check
//	GET    /api/v1/flowcharts/{doc}/export            download interchange JSON
//	POST   /api/v1/flowcharts/{doc}/import            same as PUT
//	GET    /api/v1/flowcharts/{doc}/render.{format}   dot, svg or png
//	GET    /health
//
// Whole documents travel in the interchange format of package io; node
// routes return single nodes in their stored form.
//
// # Errors
//
// Failures are JSON objects {"code": "...", "message": "..."} with a status
// derived from the error code: invalid input is 400, unknown documents,
// nodes and edges are 404, storage faults are 503.
//
// # Concurrency
//
// Mutations of one document are serialized; different documents proceed in
// parallel. Each mutation loads, edits and saves the whole document.
package server
