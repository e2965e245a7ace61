// Package translation translates text between Japanese and English with an
// OpenAI compatible chat completion API. The direction is picked by a
// script range heuristic: any Japanese character makes the input Japanese.
package translation
