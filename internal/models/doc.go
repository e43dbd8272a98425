// Package models lists the OpenAI models that the openai OCR and
// translation backends can use with the configured API key.
package models
