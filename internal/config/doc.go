// Package config loads the vango-react command configuration.
//
// The configuration is read with viper from vango-react.yaml (or any file
// given with --config), on top of built-in defaults. Every key can be
// overridden from the environment with the VANGO_REACT_ prefix, dots
// replaced by underscores.
//
// # Configuration File Structure
//
//	runtime: js
//	debug: false
//	log:
//	  level: debug
//	  development: true
//	metrics:
//	  enabled: true
//	  namespace: vango_react
//	inspect:
//	  addr: localhost:7070
//	trace:
//	  sink: s3
//	  format: yaml
//	  s3:
//	    bucket: my-traces
//	    prefix: traces/
//	    region: eu-west-1
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logger, err := cfg.Logger()
package config
