// Package engine implements the generation orchestrator for brandsmith.
// The Engine struct implements transport.Generator. For design assets it
// enhances the raw prompt into a brief, calls the text or image capability,
// asks the quality assessor for a verdict and regenerates within a bounded
// budget while the verdict calls for it. Plain text and image flows skip
// enhancement and assessment. Enhancement and assessment failures degrade
// gracefully; only generation failures surface as errors.
package engine
