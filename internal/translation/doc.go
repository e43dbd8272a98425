// Package translation turns recognized bubble text into the target
// language. DeepL is the default backend; OpenAI and Gemini chat models can
// be used instead. Resilient adds bounded retries behind a circuit breaker
// and Cached memoizes repeated phrases for the length of a run.
package translation
