// Package models lists the chat models available to the configured API key,
// so a user can pick one for the translation.model setting.
package models
