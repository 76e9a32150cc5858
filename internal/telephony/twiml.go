package telephony

import (
	"bytes"
	"encoding/xml"
	"errors"
)

// Minimal TwiML builder for the verbs this service needs: Say, Gather
// (speech), Hangup. Intentionally no provider SDK dependency.

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any    `xml:",any"`
}

type twimlSay struct {
	XMLName xml.Name `xml:"Say"`
	Text    string   `xml:",chardata"`
}

type twimlGather struct {
	XMLName             xml.Name `xml:"Gather"`
	Input               string   `xml:"input,attr"`
	Action              string   `xml:"action,attr"`
	Method              string   `xml:"method,attr"`
	SpeechTimeout       string   `xml:"speechTimeout,attr"`
	ActionOnEmptyResult string   `xml:"actionOnEmptyResult,attr"`
}

type twimlHangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

// VoiceInstruction is what the callback router wants the carrier to do next:
// say something, keep listening, end the call, or a combination.
type VoiceInstruction struct {
	Say string

	// Gather keeps listening for speech after Say. actionOnEmptyResult is
	// always set so a silent listening window still invokes GatherAction,
	// which is how the no-speech event reaches the state machine.
	Gather       bool
	GatherAction string

	Hangup bool
}

// RenderVoiceTwiML maps a VoiceInstruction to a TwiML document.
func RenderVoiceTwiML(ins VoiceInstruction) (string, error) {
	if ins.Gather && ins.Hangup {
		return "", errors.New("telephony: gather and hangup are mutually exclusive")
	}
	if ins.Gather && ins.GatherAction == "" {
		return "", errors.New("telephony: gather action is required")
	}

	var r twimlResponse
	if ins.Say != "" {
		r.Verbs = append(r.Verbs, twimlSay{Text: ins.Say})
	}
	if ins.Gather {
		r.Verbs = append(r.Verbs, twimlGather{
			Input:               "speech",
			Action:              ins.GatherAction,
			Method:              "POST",
			SpeechTimeout:       "auto",
			ActionOnEmptyResult: "true",
		})
	}
	if ins.Hangup {
		r.Verbs = append(r.Verbs, twimlHangup{})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	if err := enc.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
