// Package config provides configuration management for addprompt.
//
// This package handles:
//   - Loading and saving settings from JSON or YAML files
//   - Default configuration values
//   - Conversion to FolderConfig and Style for other packages
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// image.png + prompt.txt -> output.png
//	// deeplili preset, band of 33% of the image height
//	// one folder at a time, stop at the first failure
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.yaml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Custom Presets
//
// Styles are declared as changes over a built-in preset. Colors are hex
// strings, with an optional alpha byte:
//
//	preset: night
//	styles:
//	  night:
//	    base: deeplili
//	    background: "#101020"
//	    caption:
//	      color: "#ffffff"
//	      align: left
//	    watermark:
//	      disabled: true
//
//	style, err := settings.ToStyle("")
package config
