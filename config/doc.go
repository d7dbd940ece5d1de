// Package config loads CLI settings from KEYSTACK_* environment variables
// and an optional YAML file.
//
// Example file:
//
//	api:
//	  base_url: https://licenses.example.com
//	  api_key: sk_live_123
//	  timeout: 10s
//	storage:
//	  driver: file
//	  path: /var/lib/app/token.json
//	  passphrase: change-me
//	logging:
//	  level: debug
package config
