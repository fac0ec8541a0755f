package conversation

// Reply is one outgoing message. Exactly one of Text, Photo or Document is set.
type Reply struct {
	Text     string
	Photo    []byte
	Document []byte
	FileName string
}

func textReply(text string) Reply {
	return Reply{Text: text}
}

func photoReply(png []byte, fileName string) Reply {
	return Reply{Photo: png, FileName: fileName}
}

func documentReply(doc []byte, fileName string) Reply {
	return Reply{Document: doc, FileName: fileName}
}
