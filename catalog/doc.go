// Package catalog maps dotted module paths to Go plugin files through HCL
// manifests, providing the production implementation of registrable.Loader.
//
// A catalog is built from one or more .hcl files containing module blocks:
//
//	module "acme.sinks" {
//	  description = "Out-of-tree sinks."
//	  plugin      = "acme-sinks.so"
//	  members     = ["Webhook", "Kafka"]
//	}
//
// The block label is the dotted path a registry lookup resolves against;
// plugin names the shared object relative to the manifest file; members,
// when present, restricts which exported symbols the module offers. Plugins
// are opened lazily on first lookup and kept open for the life of the
// catalog.
package catalog
