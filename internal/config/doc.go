// Package config provides configuration parsing for Statica projects.
//
// The configuration is stored in statica.json at the project root.
// This package handles loading, saving, validating and defaulting
// configuration. The schema is closed: unknown fields anywhere in the
// document fail the load, so typos surface immediately instead of being
// silently ignored.
//
// # Configuration File Structure
//
//	{
//	  "name": "my-shop",
//	  "env": "production",
//	  "paths": {
//	    "pages": "pages",
//	    "output": "dist",
//	    "templates": "templates",
//	    "pageExtensions": [".vue", ".jsx"]
//	  },
//	  "router": {
//	    "routes": [
//	      {"name": "home", "path": "/", "prerender": true},
//	      {"name": "detail-id", "skeleton": "skeleton/detail.vue", "chunkname": "detail"}
//	    ]
//	  },
//	  "prerender": {
//	    "capacity": 1024,
//	    "ttl": "15m"
//	  },
//	  "build": {
//	    "bundler": {"command": "statica-bundler"},
//	    "minify": true
//	  },
//	  "publish": {
//	    "bucket": "my-shop-site",
//	    "region": "us-east-1"
//	  }
//	}
//
// Every field is optional; New returns the defaults and applyDefaults fills
// gaps after loading. Route overrides are matched to scanned routes by name
// at table build time.
package config
