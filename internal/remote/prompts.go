package remote

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/cv-optimizer/internal/types"
)

const analyzePromptTemplate = `You are an expert CV analyst. Compare the CV below against the job description and produce a JSON object with this exact shape:

{"success": true, "analysis": {"score": 0-100, "matched_keywords": [{"keyword": "", "relevance": 0-100, "frequency": 1, "placement": "profile|skills|experience|achievements|education|various"}], "missing_keywords": [{"keyword": "", "importance": 0-100, "suggested_placement": ""}], "dimensional_scores": {"skills_match": 0, "experience_match": 0, "education_match": 0, "industry_fit": 0, "keyword_density": 0, "format_compatibility": 0, "content_relevance": 0, "overall_compatibility": 0}, "section_analysis": {"profile": {"score": 0, "feedback": ""}}, "detailed_analysis": "", "skill_gap": "", "recommendations": [""], "improvement_potential": 0}}

If you cannot analyze the inputs, respond {"success": false, "error": "<reason>"}.
Respond with JSON only, no markdown.

CV:
%s

JOB DESCRIPTION:
%s`

const optimizePromptTemplate = `You are an expert CV writer. Rewrite the CV below to better match the job description, guided by the prior analysis. Keep all facts truthful; reorder and rephrase only. Produce a JSON object:

{"success": true, "optimizedContent": "<full optimized CV text>", "matchAnalysis": <same shape as the analysis input, re-scored for the optimized CV>}

If you cannot optimize the inputs, respond {"success": false, "error": "<reason>"}.
Respond with JSON only, no markdown.

CV:
%s

JOB DESCRIPTION:
%s

PRIOR ANALYSIS:
%s`

func analyzePrompt(cvText, jobText string) string {
	return fmt.Sprintf(analyzePromptTemplate, cvText, jobText)
}

func optimizePrompt(cvText, jobText string, analysis *types.JobMatchAnalysis) string {
	prior := "{}"
	if analysis != nil {
		if encoded, err := json.Marshal(analysis); err == nil {
			prior = string(encoded)
		}
	}
	return fmt.Sprintf(optimizePromptTemplate, cvText, jobText, prior)
}
