package lexicon

// DefaultTables returns the built-in Mandarin tables.
func DefaultTables() Tables {
	return Tables{
		Reduplications: []string{
			"妈妈", "爸爸", "宝宝", "哥哥", "姐姐", "弟弟", "妹妹", "奶奶", "爷爷",
			"叔叔", "阿姨", "婆婆", "公公", "舅舅", "姑姑", "伯伯", "谢谢", "星星",
			"多多", "甜甜", "乖乖", "饭饭", "试试", "看看", "想想", "说说", "聊聊",
			"走走", "听听", "等等", "谈谈", "讲讲", "写写", "读读", "坐坐", "玩玩",
			"猜猜", "问问", "哈哈", "嘻嘻", "呵呵", "嘿嘿", "刚刚", "常常", "慢慢",
			"天天", "渐渐", "偏偏", "往往", "仅仅",
		},
		NumeralChars: "一二三四五六七八九十百千万亿零两几多半",
		ReviewWords: []string{
			"我", "你", "他", "她", "它", "就", "去", "不", "也", "都", "在", "又",
			"很", "太", "但", "还", "是", "有", "会", "能", "要", "想", "做", "说",
			"看", "来", "拉",
		},
		ReviewPhrases: []string{
			"就是", "怎么", "真的是", "真的", "然后", "可能", "其实", "应该", "已经", "这样",
		},
		RestartCues: []string{
			"等一下", "重来", "再说一遍", "再来", "重新说", "重新来", "等等", "不对",
			"说错了", "我重说", "再来一遍",
		},
		Hesitations: []string{
			"嗯", "呃", "啊", "哦", "就是", "好像", "那个", "这个", "就是说", "怎么说",
			"对", "哎", "额",
		},
		ResidualFillers: []string{
			"嗯", "啊", "呃", "那个", "对", "就是", "然后", "所以说", "对对对",
		},
		Punctuation:        "，。！？、：；“”‘’（）《》…—,.!?:;()\"'",
		SentenceTerminals:  "。！？.!?",
		WholeSentenceTypes: []string{"single_filler", "residual_sentence"},
	}
}

// Default returns a lexicon built from DefaultTables.
func Default() *Lexicon {
	return New(DefaultTables())
}
