package pathway

// Prompts sent to the generative-text capability. Each demands bare JSON;
// responses are still treated as untrusted and run through validation.

const extractSkillsPrompt = `You are a career advisor extracting skills from a document.

TEXT:
%s

Identify every skill the text demonstrates or claims, across four categories:
- "technical" (languages, frameworks, databases, cloud, infrastructure)
- "soft" (communication, leadership, collaboration)
- "domain" (industry knowledge, business domains)
- "tools" (specific products, platforms, utilities)

For each skill assign a confidence between 0.0 and 1.0 reflecting how strongly
the text supports it (explicit claim with evidence ~0.9, explicit mention ~0.7,
implied ~0.5).

Return a JSON object with this exact structure:
{
  "skills": [
    {"name": "<lower-case skill name>", "category": "<technical|soft|domain|tools>", "confidence": <0.0-1.0>}
  ]
}

Return ONLY the JSON object, no markdown, no explanation.`

const requiredSkillsPrompt = `You are a career advisor reading a job description.

JOB DESCRIPTION:
%s

List every skill the role requires, with how many times each is mentioned or
restated, and an importance from 1 (nice to have) to 10 (core requirement).

Return a JSON object with this exact structure:
{
  "required_skills": [
    {"skill": "<lower-case skill name>", "importance": <1-10>, "frequency": <count>}
  ]
}

Return ONLY the JSON object, no markdown, no explanation.`

const genericJDPrompt = `Write a realistic, generic job description for the role "%s".
Include a short role summary, 6-10 required skills (mention the most critical
ones twice), and expected experience. Plain text, no markdown headings, at
most 250 words.`

const synthesizePlanPrompt = `You are a career advisor building a learning plan.

TODAY: %s
TARGET ROLE: %s
EXPERIENCE LEVEL: %s
TIMEFRAME: %s
WEEKLY LEARNING HOURS: %s
LEARNING STYLE: %s
BUDGET: %s

CURRENT SKILLS: %s

COMPUTED SKILL GAPS (priority order, do not invent different scores):
%s

JOB DESCRIPTION:
%s
%s
Build a complete improvement plan. Return a JSON object with these six
top-level sections, each a non-empty array:
{
  "required_skills": [{"skill": "<name>", "importance": <1-10>, "frequency": <count>}],
  "skill_gaps": [{"skill": "<name>", "current_score": <0-100>, "target_score": <0-100>, "priority": "<high|medium>"}],
  "learning_path": [{"order": <1..n contiguous>, "title": "<phase title>", "duration_estimate": "<e.g. 2-3 months>", "skills_to_develop": ["<skill>"]}],
  "milestones": [{"title": "<checkpoint>", "target_date": "<YYYY-MM-DD>", "description": "<what done looks like>"}],
  "resources": [{"title": "<name>", "url": "<link>", "provider": "<site>", "resource_type": "<course|video|documentation|repository>", "price_type": "<free|paid|mixed>", "skill": "<skill>"}],
  "risk_assessment": [{"risk": "<what could derail the plan>", "severity": "<low|medium|high>", "mitigation": "<countermeasure>"}]
}

Rules:
- learning_path needs at least 3 phases ordered from foundations to mastery.
- Echo back the computed skill_gaps scores; do not change them.
- Milestones should mark the end of each phase, with target_date after TODAY.
- Keep every score within 0-100.

Return ONLY the JSON object, no markdown, no explanation.`
