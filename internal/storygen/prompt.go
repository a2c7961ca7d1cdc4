package storygen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write very short picture stories for a 6-year-old learning to read Chinese.`

func buildUserMessage(chars []string, pages int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Mandatory characters: 【%s】\n\n", strings.Join(chars, "、"))
	fmt.Fprintf(&b, "Task: Write a %d-page story.\n\n", pages)
	b.WriteString(`Requirements:
1. Include ALL mandatory characters naturally in the Chinese text.
2. Each page: 1 simple Chinese sentence.
3. "image_keyword": EXACTLY ONE English noun for the main subject of the page. No adjectives, no phrases.
   - BAD: "cute cartoon cat", "running dog"
   - GOOD: "cat", "dog", "forest", "sky"
4. Return JSON only: {"title": "...", "pages": [{"text": "...", "image_keyword": "..."}]}
`)
	return b.String()
}
