package analysis

// Analyst persona for synthesis calls. The extraction step runs without a
// system message; only the answer-producing calls adopt the persona.
const analystSystem = `你是一位專業的財經分析師，擅長閱讀財務報表與新聞，並以清楚、務實的繁體中文回答投資人的問題。`

// synthesisPrompt combines the question with both evidence sections and
// requests the two-part answer shape: a bulleted evidence digest followed by
// a bounded direct answer.
const synthesisPrompt = `請根據以下資料回答使用者的問題。

使用者的問題：
「%s」

【財報資料】
%s

【新聞資料】
%s

請以繁體中文輸出兩個段落：

【重點整理】
以條列方式整理上述資料中與問題相關的重點。

【回答】
直接回答使用者的問題，約 250 字以內。若資料不足以回答，請明確說明缺少什麼。`

// newsSummaryPrompt produces the news-only two-part answer
const newsSummaryPrompt = `以下是關於「%s」的 %d 則新聞。

新聞內容：
%s

請以繁體中文輸出兩個段落：

【重點整理】
逐篇條列每則新聞的重點（每篇 1-2 句）。

【回答】
綜合所有新聞直接回答主題問題，約 250 字以內。`

// financialDataPrompt drives the filings-centric analysis with a compact
// news digest as supporting context.
const financialDataPrompt = `請根據以下財報資料分析「%s」的財務狀況，回答使用者的問題。

使用者的問題：
「%s」

【財報資料】
%s

【近期新聞摘要】
%s

請比較各期數據的變化，指出值得注意的項目，並給出整體評估。請以繁體中文回答。`
