package questionbank

// seedQuestions is the bundled company question bank.
var seedQuestions = []ReferenceQuestion{
	// Google
	{
		Company:          "Google",
		Role:             "Software Engineer",
		Question:         "Design a URL shortening service like bit.ly. How would you handle high traffic and ensure fast redirects?",
		Difficulty:       DifficultyHard,
		Category:         CategorySystemDesign,
		ExpectedKeywords: []string{"hash function", "database", "caching", "load balancing", "base62 encoding", "collision handling"},
	},
	{
		Company:          "Google",
		Role:             "Software Engineer",
		Question:         "Given an array of integers, find two numbers that add up to a specific target. What is the most efficient approach?",
		Difficulty:       DifficultyEasy,
		Category:         CategoryCoding,
		ExpectedKeywords: []string{"hash map", "two pointers", "O(n)", "complement", "dictionary"},
	},
	{
		Company:          "Google",
		Role:             "Software Engineer",
		Question:         "Describe a time when you had to make a difficult technical decision with incomplete information. How did you approach it?",
		Difficulty:       DifficultyMedium,
		Category:         CategoryBehavioral,
		ExpectedKeywords: []string{"decision making", "risk assessment", "stakeholder communication", "trade-offs", "iteration"},
	},
	{
		Company:          "Google",
		Role:             "Software Engineer",
		Question:         "Explain the difference between processes and threads. When would you use one over the other?",
		Difficulty:       DifficultyMedium,
		Category:         CategoryTechnical,
		ExpectedKeywords: []string{"memory space", "context switching", "parallelism", "concurrency", "shared memory", "IPC"},
	},

	// Amazon
	{
		Company:          "Amazon",
		Role:             "Software Development Engineer",
		Question:         "Design an e-commerce shopping cart system. How would you handle inventory management and concurrent purchases?",
		Difficulty:       DifficultyHard,
		Category:         CategorySystemDesign,
		ExpectedKeywords: []string{"distributed systems", "eventual consistency", "locking", "microservices", "message queue", "idempotency"},
	},
	{
		Company:          "Amazon",
		Role:             "Software Development Engineer",
		Question:         "Tell me about a time when you had to deliver a project under tight deadlines. How did you prioritize?",
		Difficulty:       DifficultyMedium,
		Category:         CategoryBehavioral,
		ExpectedKeywords: []string{"prioritization", "deadline", "MVP", "communication", "leadership principle", "bias for action"},
	},
	{
		Company:          "Amazon",
		Role:             "Software Development Engineer",
		Question:         "Implement an LRU (Least Recently Used) cache with O(1) get and put operations.",
		Difficulty:       DifficultyMedium,
		Category:         CategoryCoding,
		ExpectedKeywords: []string{"doubly linked list", "hash map", "O(1)", "eviction policy", "data structure"},
	},
	{
		Company:          "Amazon",
		Role:             "Software Development Engineer",
		Question:         "Explain how you would optimize a slow database query. What tools and techniques would you use?",
		Difficulty:       DifficultyMedium,
		Category:         CategoryTechnical,
		ExpectedKeywords: []string{"indexing", "query plan", "EXPLAIN", "normalization", "caching", "partitioning"},
	},

	// Microsoft
	{
		Company:          "Microsoft",
		Role:             "Software Engineer",
		Question:         "Design a real-time collaborative document editing system like Google Docs.",
		Difficulty:       DifficultyHard,
		Category:         CategorySystemDesign,
		ExpectedKeywords: []string{"CRDT", "operational transformation", "WebSocket", "conflict resolution", "version control", "eventual consistency"},
	},
	{
		Company:          "Microsoft",
		Role:             "Software Engineer",
		Question:         "How would you find the kth largest element in an unsorted array? Discuss multiple approaches.",
		Difficulty:       DifficultyMedium,
		Category:         CategoryCoding,
		ExpectedKeywords: []string{"quickselect", "heap", "partition", "O(n)", "pivot", "min-heap"},
	},
	{
		Company:          "Microsoft",
		Role:             "Software Engineer",
		Question:         "What is dependency injection and why is it useful? Can you give an example?",
		Difficulty:       DifficultyEasy,
		Category:         CategoryTechnical,
		ExpectedKeywords: []string{"IoC", "loose coupling", "testing", "SOLID principles", "interface", "mockability"},
	},
	{
		Company:          "Microsoft",
		Role:             "Software Engineer",
		Question:         "Describe a situation where you disagreed with a team member. How did you handle it?",
		Difficulty:       DifficultyEasy,
		Category:         CategoryBehavioral,
		ExpectedKeywords: []string{"conflict resolution", "communication", "empathy", "collaboration", "compromise"},
	},

	// Meta
	{
		Company:          "Meta",
		Role:             "Software Engineer",
		Question:         "Design a news feed system for a social media platform. How would you rank and personalize content?",
		Difficulty:       DifficultyHard,
		Category:         CategorySystemDesign,
		ExpectedKeywords: []string{"ranking algorithm", "machine learning", "caching", "fan-out", "graph database", "real-time"},
	},
	{
		Company:          "Meta",
		Role:             "Software Engineer",
		Question:         "Given a binary tree, serialize and deserialize it. Explain your approach.",
		Difficulty:       DifficultyMedium,
		Category:         CategoryCoding,
		ExpectedKeywords: []string{"BFS", "DFS", "preorder", "null markers", "recursion", "queue"},
	},
	{
		Company:          "Meta",
		Role:             "Software Engineer",
		Question:         "Explain the React component lifecycle. What hooks would you use and when?",
		Difficulty:       DifficultyEasy,
		Category:         CategoryTechnical,
		ExpectedKeywords: []string{"useEffect", "useState", "mounting", "cleanup", "dependencies", "memoization"},
	},
	{
		Company:          "Meta",
		Role:             "Software Engineer",
		Question:         "Tell me about a project you are most proud of. What was your specific contribution?",
		Difficulty:       DifficultyEasy,
		Category:         CategoryBehavioral,
		ExpectedKeywords: []string{"impact", "ownership", "technical challenges", "teamwork", "results"},
	},

	// Apple
	{
		Company:          "Apple",
		Role:             "Software Engineer",
		Question:         "Design a music streaming service like Apple Music. Focus on the audio playback and offline mode.",
		Difficulty:       DifficultyHard,
		Category:         CategorySystemDesign,
		ExpectedKeywords: []string{"CDN", "adaptive bitrate", "offline storage", "DRM", "queue management", "caching"},
	},
	{
		Company:          "Apple",
		Role:             "Software Engineer",
		Question:         "Implement a function to detect if a linked list has a cycle. Follow up: find the start of the cycle.",
		Difficulty:       DifficultyMedium,
		Category:         CategoryCoding,
		ExpectedKeywords: []string{"Floyd cycle detection", "two pointers", "slow fast", "O(1) space", "tortoise hare"},
	},
	{
		Company:          "Apple",
		Role:             "Software Engineer",
		Question:         "What are the key principles of good API design? Give examples of APIs you consider well-designed.",
		Difficulty:       DifficultyMedium,
		Category:         CategoryTechnical,
		ExpectedKeywords: []string{"REST", "consistency", "versioning", "documentation", "error handling", "idempotency"},
	},
	{
		Company:          "Apple",
		Role:             "Software Engineer",
		Question:         "How do you stay current with new technologies? Give an example of something you learned recently.",
		Difficulty:       DifficultyEasy,
		Category:         CategoryHR,
		ExpectedKeywords: []string{"learning", "curiosity", "continuous improvement", "side projects", "community"},
	},

	// Netflix
	{
		Company:          "Netflix",
		Role:             "Software Engineer",
		Question:         "Design a video streaming platform. How would you handle adaptive bitrate streaming and global content delivery?",
		Difficulty:       DifficultyHard,
		Category:         CategorySystemDesign,
		ExpectedKeywords: []string{"CDN", "transcoding", "HLS", "DASH", "edge servers", "buffering", "quality adaptation"},
	},
	{
		Company:          "Netflix",
		Role:             "Software Engineer",
		Question:         "Given a matrix of 0s and 1s, find the largest rectangle containing only 1s.",
		Difficulty:       DifficultyHard,
		Category:         CategoryCoding,
		ExpectedKeywords: []string{"histogram", "dynamic programming", "stack", "maximal rectangle", "O(mn)"},
	},
	{
		Company:          "Netflix",
		Role:             "Software Engineer",
		Question:         "Explain chaos engineering. How would you implement it in a production environment?",
		Difficulty:       DifficultyHard,
		Category:         CategoryTechnical,
		ExpectedKeywords: []string{"fault injection", "resilience", "Chaos Monkey", "blast radius", "hypothesis", "steady state"},
	},
	{
		Company:          "Netflix",
		Role:             "Software Engineer",
		Question:         "Describe a time when you took a risk that failed. What did you learn from it?",
		Difficulty:       DifficultyMedium,
		Category:         CategoryBehavioral,
		ExpectedKeywords: []string{"failure", "learning", "risk assessment", "iteration", "growth mindset"},
	},

	// Stripe
	{
		Company:          "Stripe",
		Role:             "Software Engineer",
		Question:         "Design a payment processing system. How would you ensure reliability and handle failures?",
		Difficulty:       DifficultyHard,
		Category:         CategorySystemDesign,
		ExpectedKeywords: []string{"idempotency", "saga pattern", "retry logic", "dead letter queue", "two-phase commit", "reconciliation"},
	},
	{
		Company:          "Stripe",
		Role:             "Software Engineer",
		Question:         "Implement a rate limiter. What algorithms would you consider and why?",
		Difficulty:       DifficultyMedium,
		Category:         CategoryCoding,
		ExpectedKeywords: []string{"token bucket", "sliding window", "Redis", "distributed", "fixed window", "leaky bucket"},
	},
	{
		Company:          "Stripe",
		Role:             "Software Engineer",
		Question:         "What is the CAP theorem? How does it apply to distributed database design?",
		Difficulty:       DifficultyMedium,
		Category:         CategoryTechnical,
		ExpectedKeywords: []string{"consistency", "availability", "partition tolerance", "trade-offs", "eventual consistency"},
	},
	{
		Company:          "Stripe",
		Role:             "Software Engineer",
		Question:         "Why are you interested in working at Stripe? What excites you about fintech?",
		Difficulty:       DifficultyEasy,
		Category:         CategoryHR,
		ExpectedKeywords: []string{"mission", "impact", "financial infrastructure", "developer experience", "growth"},
	},

	// Uber
	{
		Company:          "Uber",
		Role:             "Software Engineer",
		Question:         "Design a ride-sharing matching system. How would you optimize for both riders and drivers?",
		Difficulty:       DifficultyHard,
		Category:         CategorySystemDesign,
		ExpectedKeywords: []string{"geospatial indexing", "matching algorithm", "ETA", "surge pricing", "real-time", "load balancing"},
	},
	{
		Company:          "Uber",
		Role:             "Software Engineer",
		Question:         "Find the shortest path between two points on a map. What algorithm would you use and why?",
		Difficulty:       DifficultyMedium,
		Category:         CategoryCoding,
		ExpectedKeywords: []string{"Dijkstra", "A*", "heuristic", "graph", "priority queue", "BFS"},
	},
	{
		Company:          "Uber",
		Role:             "Software Engineer",
		Question:         "Explain microservices architecture. What are the challenges of migrating from a monolith?",
		Difficulty:       DifficultyMedium,
		Category:         CategoryTechnical,
		ExpectedKeywords: []string{"service discovery", "API gateway", "data consistency", "deployment", "monitoring", "bounded context"},
	},
	{
		Company:          "Uber",
		Role:             "Software Engineer",
		Question:         "Tell me about a time when you had to work with ambiguous requirements. How did you proceed?",
		Difficulty:       DifficultyMedium,
		Category:         CategoryBehavioral,
		ExpectedKeywords: []string{"clarification", "assumptions", "stakeholders", "iteration", "documentation"},
	},
}
