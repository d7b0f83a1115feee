// Package config loads and validates the AeroSense Core configuration.
//
// Configuration comes from a YAML file, with AEROSENSE_* environment
// variables overriding individual values. It is loaded once at
// startup; nothing re-reads it at runtime.
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Database.Path)
//
// Secrets (the JWT secret, MQTT and InfluxDB credentials) belong in
// environment variables rather than the file, and the file itself
// should be 0600.
package config
