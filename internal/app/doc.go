// Package app composes the back-office services into a running application.
//
// # Package Structure
//
//	internal/app/
//	├── application.go      # Application struct, wiring, and lifecycle
//	├── domain/             # Domain models (pure data structures)
//	│   ├── catalog/        # Brands, lens products, variants
//	│   ├── diopter/        # Diopter values, axes, grids, selection, focus
//	│   ├── order/          # Orders, line items, drafts
//	│   └── retailer/       # Retail stores
//	├── storage/            # Storage interfaces and implementations
//	│   ├── interfaces.go   # Store interfaces (CatalogStore, OrderStore, ...)
//	│   ├── memory/         # In-memory implementation for testing
//	│   └── postgres/       # PostgreSQL implementation for production
//	├── services/           # Business services built on the stores
//	│   ├── catalog/        # Brand and product management
//	│   ├── variants/       # Variant bulk operations and the grid editor
//	│   ├── orders/         # Order submission and the order entry session
//	│   └── retail/         # Retail store management
//	├── httpapi/            # HTTP API handlers and routing
//	├── hotkeys/            # Function-key dispatch for entry sessions
//	├── system/             # Lifecycle management
//	└── metrics/            # Application metrics
//
// # Responsibilities
//
// The app package wires services to their stores, exposes the REST surface,
// and manages startup and shutdown ordering. Business rules live in the
// services packages; pure grid arithmetic lives in domain/diopter.
package app
