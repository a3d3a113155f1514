// Package generation turns LLM text completions into task classifications
// and productivity advisories.
//
// The Classifier interface is what the rest of the application calls. Its
// operations never fail: every remote error, empty reply or unparseable reply
// is mapped to a fixed fallback and reported through the Outcome and Reason
// fields of the result instead of an error. Service implements Classifier on
// top of any TextGenerator (the Gemini adapter lives in platform/gemini);
// Unavailable implements it when no model is configured.
package generation
